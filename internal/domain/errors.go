package domain

import "errors"

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrAdminTaken   = errors.New("room already has an admin")
)
