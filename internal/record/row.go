package record

import (
	"fmt"

	"github.com/tuannm99/pagedb/internal/alias/bx"
)

const (
	UsernameMaxLen = 32
	EmailMaxLen    = 255
)

// Slot layout:
// +---------+------+----------------+------+---------------+
// | id u32  | ulen | username [32]  | elen | email [255]   |
// +---------+------+----------------+------+---------------+
// 0         4      5                37     38              293
const (
	idOffset       = 0
	idSize         = 4
	usernameLenOff = idOffset + idSize
	usernameOffset = usernameLenOff + 1
	emailLenOff    = usernameOffset + UsernameMaxLen
	emailOffset    = emailLenOff + 1

	RowSize = emailOffset + EmailMaxLen
)

// Row is one record of the fixed users schema.
type Row struct {
	ID       int32
	Username string
	Email    string
}

func (r Row) String() string {
	return fmt.Sprintf("%d %s %s", r.ID, r.Username, r.Email)
}

// EncodeRow writes r into dst[:RowSize]. Field lengths are not validated
// here; strings longer than their field are cut at the field width.
func EncodeRow(r Row, dst []byte) {
	slot := dst[:RowSize]

	bx.PutI32At(slot, idOffset, r.ID)

	n := bx.PutPadded(slot[usernameOffset:emailLenOff], []byte(r.Username))
	slot[usernameLenOff] = byte(n)

	n = bx.PutPadded(slot[emailOffset:RowSize], []byte(r.Email))
	slot[emailLenOff] = byte(n)
}

// DecodeRow reads a row from src[:RowSize]. A length byte larger than its
// field (a corrupt slot) is clamped to the field width.
func DecodeRow(src []byte) Row {
	slot := src[:RowSize]

	ulen := min(int(slot[usernameLenOff]), UsernameMaxLen)
	elen := min(int(slot[emailLenOff]), EmailMaxLen)

	return Row{
		ID:       bx.I32At(slot, idOffset),
		Username: string(slot[usernameOffset : usernameOffset+ulen]),
		Email:    string(slot[emailOffset : emailOffset+elen]),
	}
}
