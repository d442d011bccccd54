// SPDX-License-Identifier: Unlicense OR MIT

//go:build (linux && !android) || freebsd

package wayland

import (
	"fmt"
	"image"

	"golang.org/x/sys/unix"

	"waywin.org/app/internal/wm"
	"waywin.org/internal/wl"
)

// maxBuffers bounds the buffers kept per window. Two suffice unless
// the compositor holds on to both.
const maxBuffers = 3

// shmBuffer is a wl_buffer in its own shared memory pool.
type shmBuffer struct {
	pool *wl.ShmPool
	buf  *wl.Buffer
	data []byte
	size image.Point
	busy bool
}

func newShmBuffer(shm *wl.Shm, size image.Point) (*shmBuffer, error) {
	stride := size.X * 4
	n := stride * size.Y
	fd, err := createShmFile()
	if err != nil {
		return nil, err
	}
	// The pool keeps its own reference to the memory.
	defer unix.Close(fd)
	if err := unix.Ftruncate(fd, int64(n)); err != nil {
		return nil, fmt.Errorf("wayland: ftruncate: %v", err)
	}
	data, err := unix.Mmap(fd, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("wayland: mmap: %v", err)
	}
	b := &shmBuffer{data: data, size: size}
	b.pool = shm.CreatePool(fd, int32(n))
	b.buf = b.pool.CreateBuffer(0, int32(size.X), int32(size.Y), int32(stride), wl.ShmFormatARGB8888)
	b.buf.OnRelease = func() {
		b.busy = false
	}
	return b, nil
}

// fill copies img into the buffer, converting to little endian
// ARGB8888. Both formats are alpha premultiplied.
func (b *shmBuffer) fill(img *image.RGBA) {
	r := img.Rect
	for y := 0; y < b.size.Y; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+r.Dx()*4]
		dst := b.data[y*b.size.X*4:]
		for i := 0; i < len(src); i += 4 {
			dst[i+0] = src[i+2]
			dst[i+1] = src[i+1]
			dst[i+2] = src[i+0]
			dst[i+3] = src[i+3]
		}
	}
}

func (b *shmBuffer) destroy() {
	b.buf.Destroy()
	b.pool.Destroy()
	unix.Munmap(b.data)
	b.data = nil
}

// Present shows img as the content of the window. Its size should be
// the physical size of the window.
func (w *Window) Present(img *image.RGBA) error {
	if w.s.shm == nil {
		return fmt.Errorf("wayland: wl_shm: %w", wm.ErrNotSupported)
	}
	size := img.Rect.Size()
	if size.X <= 0 || size.Y <= 0 {
		return fmt.Errorf("wayland: empty image")
	}
	scale := w.bufferScale
	if size.X%int(scale) != 0 || size.Y%int(scale) != 0 {
		return fmt.Errorf("wayland: image size %v is not a multiple of the buffer scale %d", size, scale)
	}
	b, err := w.buffer(size)
	if err != nil {
		return err
	}
	b.fill(img)
	b.busy = true
	w.surf.SetBufferScale(scale)
	w.surf.Attach(b.buf, 0, 0)
	w.surf.DamageBuffer(0, 0, int32(size.X), int32(size.Y))
	w.surf.Commit()
	return w.s.conn.Flush()
}

// buffer returns an idle buffer of the size, allocating it if needed.
// Idle buffers of other sizes are destroyed.
func (w *Window) buffer(size image.Point) (*shmBuffer, error) {
	var found *shmBuffer
	kept := w.buffers[:0]
	for _, b := range w.buffers {
		switch {
		case b.busy:
			kept = append(kept, b)
		case b.size == size && found == nil:
			found = b
			kept = append(kept, b)
		default:
			b.destroy()
		}
	}
	w.buffers = kept
	if found != nil {
		return found, nil
	}
	if len(w.buffers) >= maxBuffers {
		return nil, fmt.Errorf("wayland: all %d buffers are held by the compositor", len(w.buffers))
	}
	b, err := newShmBuffer(w.s.shm, size)
	if err != nil {
		return nil, err
	}
	w.buffers = append(w.buffers, b)
	return b, nil
}
