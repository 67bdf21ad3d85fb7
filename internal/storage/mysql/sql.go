package mysql

// Raw statements for health checks; everything else goes through gorm.

const statsSQL = `
SELECT
  (SELECT COUNT(*) FROM hotels) AS hotels,
  (SELECT COUNT(*) FROM rooms)  AS rooms
`

const versionSQL = `SELECT VERSION()`

// linkedAmenityIDsSQL is formatted with the link table and owner column; both come from
// the fixed linkTables map, never from input.
const linkedAmenityIDsSQL = "SELECT amenity_id FROM %s WHERE %s = ? ORDER BY amenity_id FOR UPDATE"
