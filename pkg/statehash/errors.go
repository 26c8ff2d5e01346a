package statehash

import "errors"

var ErrNoKeys = errors.New("statehash: at least one key is required")
