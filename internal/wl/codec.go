// SPDX-License-Identifier: Unlicense OR MIT

//go:build linux || freebsd

package wl

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// order is the byte order of the wire protocol, which is the host's.
var order = binary.NativeEndian

const headerSize = 8

// maxMessageSize is the largest message the protocol can describe.
const maxMessageSize = 1 << 16

// Fixed is a signed 24.8 fixed point number.
type Fixed float64

// FD is a file descriptor argument. Sending an FD transfers a
// duplicate; the caller keeps ownership of the original.
type FD int

// Array is an array argument.
type Array []byte

var errShortMessage = errors.New("wl: message too short")

func toFixed(v float64) int32 {
	return int32(math.Round(v * 256))
}

func fromFixed(v int32) float64 {
	return float64(v) / 256
}

// appendMessage encodes a message for the object id and appends it to
// buf. File descriptor arguments are returned separately.
func appendMessage(buf []byte, fds []int, id ObjectID, opcode uint16, args ...any) ([]byte, []int) {
	start := len(buf)
	buf = order.AppendUint32(buf, uint32(id))
	// The size is patched below.
	buf = order.AppendUint32(buf, uint32(opcode))
	for _, arg := range args {
		switch a := arg.(type) {
		case uint32:
			buf = order.AppendUint32(buf, a)
		case int32:
			buf = order.AppendUint32(buf, uint32(a))
		case ObjectID:
			buf = order.AppendUint32(buf, uint32(a))
		case Fixed:
			buf = order.AppendUint32(buf, uint32(toFixed(float64(a))))
		case string:
			buf = order.AppendUint32(buf, uint32(len(a)+1))
			buf = append(buf, a...)
			buf = append(buf, 0)
			buf = pad(buf, len(a)+1)
		case Array:
			buf = order.AppendUint32(buf, uint32(len(a)))
			buf = append(buf, a...)
			buf = pad(buf, len(a))
		case FD:
			fds = append(fds, int(a))
		default:
			panic(fmt.Sprintf("wl: invalid argument type %T", arg))
		}
	}
	size := len(buf) - start
	if size >= maxMessageSize {
		panic("wl: message too large")
	}
	order.PutUint32(buf[start+4:], uint32(size)<<16|uint32(opcode))
	return buf, fds
}

func pad(buf []byte, n int) []byte {
	for ; n%4 != 0; n++ {
		buf = append(buf, 0)
	}
	return buf
}

// header decodes a message header.
func header(b []byte) (id ObjectID, opcode uint16, size int) {
	id = ObjectID(order.Uint32(b))
	w := order.Uint32(b[4:])
	return id, uint16(w), int(w >> 16)
}

// decoder reads the arguments of a message. The first error is sticky
// and makes every later read return the zero value.
type decoder struct {
	data []byte
	fds  *[]int
	err  error
}

func (d *decoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *decoder) uint() uint32 {
	if d.err != nil {
		return 0
	}
	if len(d.data) < 4 {
		d.fail(errShortMessage)
		return 0
	}
	v := order.Uint32(d.data)
	d.data = d.data[4:]
	return v
}

func (d *decoder) int() int32 {
	return int32(d.uint())
}

func (d *decoder) fixed() float64 {
	return fromFixed(d.int())
}

func (d *decoder) object() ObjectID {
	return ObjectID(d.uint())
}

func (d *decoder) bytes() []byte {
	n := int(d.uint())
	if d.err != nil {
		return nil
	}
	padded := (n + 3) &^ 3
	if padded > len(d.data) || n < 0 {
		d.fail(errShortMessage)
		return nil
	}
	b := d.data[:n:n]
	d.data = d.data[padded:]
	return b
}

func (d *decoder) string() string {
	b := d.bytes()
	if len(b) == 0 {
		return ""
	}
	if b[len(b)-1] != 0 {
		d.fail(errors.New("wl: unterminated string"))
		return ""
	}
	return string(b[:len(b)-1])
}

func (d *decoder) array() []byte {
	return d.bytes()
}

// uints decodes an array of 32-bit values.
func (d *decoder) uints() []uint32 {
	b := d.bytes()
	vals := make([]uint32, len(b)/4)
	for i := range vals {
		vals[i] = order.Uint32(b[i*4:])
	}
	return vals
}

func (d *decoder) fd() int {
	if d.err != nil {
		return -1
	}
	if len(*d.fds) == 0 {
		d.fail(errors.New("wl: missing file descriptor"))
		return -1
	}
	fd := (*d.fds)[0]
	*d.fds = (*d.fds)[1:]
	return fd
}

// ok reports whether every argument decoded successfully.
func (d *decoder) ok() bool {
	return d.err == nil
}
