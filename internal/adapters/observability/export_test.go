package observability

import (
	"io"

	"github.com/rs/zerolog"
)

func NewTestLogger(w io.Writer) zerolog.Logger { return newLogger(w, "prod") }
