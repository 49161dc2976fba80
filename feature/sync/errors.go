package sync

import "errors"

var errNoDatabase = errors.New("db:// reference requires a configured database")
