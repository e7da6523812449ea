package storage

import "errors"

var (
	ErrCreateDir   = errors.New("create results directory")
	ErrEncode      = errors.New("encode record")
	ErrWrite       = errors.New("write record")
	ErrReadDir     = errors.New("read results directory")
	ErrDecode      = errors.New("decode record")
	ErrInvalidName = errors.New("invalid record filename")
)
