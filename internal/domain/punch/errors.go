package punch

import "errors"

var (
	ErrAlreadyPunched = errors.New("a punch of this type already exists for today")
)
