package domain

import "strings"

// Icon identifies an amenity pictogram. Amenities store the icon name as free text; LookupIcon
// resolves it against the static catalog below and falls back to IconUnknown.
type Icon int

const (
	IconUnknown Icon = iota

	IconWifi
	IconTv
	IconPhone
	IconZap
	IconRadio
	IconSmartphone
	IconLaptop

	IconWaves
	IconDumbbell
	IconMusic
	IconGameController
	IconCamera
	IconHeadphones

	IconCoffee
	IconUtensils
	IconWine
	IconChefHat
	IconIceCream
	IconPizza

	IconBed
	IconBath
	IconAirVent
	IconThermometer
	IconShirt
	IconScissors

	IconCar
	IconShield
	IconUsers
	IconClock
	IconBell
	IconKey
	IconBriefcase

	IconStar
	IconHeart
	IconHome
	IconBuilding
	IconTrees
	IconSun
	IconMoon
	IconGift
	IconMapPin

	iconCount
)

var iconNames = [iconCount]string{
	IconUnknown:        "unknown",
	IconWifi:           "Wifi",
	IconTv:             "Tv",
	IconPhone:          "Phone",
	IconZap:            "Zap",
	IconRadio:          "Radio",
	IconSmartphone:     "Smartphone",
	IconLaptop:         "Laptop",
	IconWaves:          "Waves",
	IconDumbbell:       "Dumbbell",
	IconMusic:          "Music",
	IconGameController: "GameController2",
	IconCamera:         "Camera",
	IconHeadphones:     "Headphones",
	IconCoffee:         "Coffee",
	IconUtensils:       "Utensils",
	IconWine:           "Wine",
	IconChefHat:        "ChefHat",
	IconIceCream:       "IceCream",
	IconPizza:          "Pizza",
	IconBed:            "Bed",
	IconBath:           "Bath",
	IconAirVent:        "AirVent",
	IconThermometer:    "Thermometer",
	IconShirt:          "Shirt",
	IconScissors:       "Scissors",
	IconCar:            "Car",
	IconShield:         "Shield",
	IconUsers:          "Users",
	IconClock:          "Clock",
	IconBell:           "Bell",
	IconKey:            "Key",
	IconBriefcase:      "Briefcase",
	IconStar:           "Star",
	IconHeart:          "Heart",
	IconHome:           "Home",
	IconBuilding:       "Building",
	IconTrees:          "Trees",
	IconSun:            "Sun",
	IconMoon:           "Moon",
	IconGift:           "Gift",
	IconMapPin:         "MapPin",
}

var iconIndex = func() map[string]Icon {
	m := make(map[string]Icon, iconCount)
	for i := IconUnknown + 1; i < iconCount; i++ {
		m[strings.ToLower(iconNames[i])] = i
	}
	// older records use the unsuffixed name
	m["gamecontroller"] = IconGameController
	return m
}()

func (i Icon) String() string {
	if i <= IconUnknown || i >= iconCount {
		return iconNames[IconUnknown]
	}
	return iconNames[i]
}

// LookupIcon is case-insensitive and ignores surrounding whitespace.
func LookupIcon(name string) Icon {
	if i, ok := iconIndex[strings.ToLower(strings.TrimSpace(name))]; ok {
		return i
	}
	return IconUnknown
}

type IconCategory struct {
	Name  string   `json:"name"`
	Icons []string `json:"icons"`
}

var iconCategories = []struct {
	name  string
	icons []Icon
}{
	{"Technology", []Icon{IconWifi, IconTv, IconPhone, IconZap, IconRadio, IconSmartphone, IconLaptop}},
	{"Entertainment", []Icon{IconWaves, IconDumbbell, IconMusic, IconGameController, IconCamera, IconHeadphones}},
	{"Food & drink", []Icon{IconCoffee, IconUtensils, IconWine, IconChefHat, IconIceCream, IconPizza}},
	{"Comfort", []Icon{IconBed, IconBath, IconAirVent, IconThermometer, IconShirt, IconScissors}},
	{"Services", []Icon{IconCar, IconShield, IconUsers, IconClock, IconBell, IconKey, IconBriefcase}},
	{"Other", []Icon{IconStar, IconHeart, IconHome, IconBuilding, IconTrees, IconSun, IconMoon, IconGift, IconMapPin}},
}

// IconCatalog returns the pickable icons grouped by category, in display order.
func IconCatalog() []IconCategory {
	out := make([]IconCategory, 0, len(iconCategories))
	for _, c := range iconCategories {
		names := make([]string, len(c.icons))
		for i, ic := range c.icons {
			names[i] = ic.String()
		}
		out = append(out, IconCategory{Name: c.name, Icons: names})
	}
	return out
}
