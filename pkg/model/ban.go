package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// PermanentBan is the hour count the server treats as "forever".
const PermanentBan BanHours = -1

var ErrBanHours = errors.New("ban duration must be a positive number of hours, or -1 for permanent")

// BanHours is the duration of a ban in hours.
type BanHours int

// Valid returns true for a positive duration or PermanentBan.
func (h BanHours) Valid() bool {
	return h > 0 || h == PermanentBan
}

func (h BanHours) String() string {
	if h == PermanentBan {
		return "permanent"
	}
	return fmt.Sprintf("%dh", int(h))
}

// ParseBanHours reads an hour count as typed into the ban form.
// "permanent" is accepted as an alias for -1.
func ParseBanHours(s string) (BanHours, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "permanent") {
		return PermanentBan, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrBanHours
	}
	h := BanHours(n)
	if !h.Valid() {
		return 0, ErrBanHours
	}
	return h, nil
}
