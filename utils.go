package gamepads

import (
	"bytes"
	"os"
	"time"

	"github.com/pkg/errors"
)

// escapeString returns the NUL-terminated string at the start of src.
func escapeString(src []byte) string {
	if n := bytes.IndexByte(src, 0); n >= 0 {
		src = src[:n]
	}
	return string(src)
}

// openFilePersistent opens path for reading. udev creates device nodes
// before it fixes their permissions, so permission errors are retried a
// few times.
func openFilePersistent(path string) (f *os.File, err error) {

	for i := 0; i < 5; i++ {
		if f, err = os.OpenFile(path, os.O_RDONLY, 0); err != nil {
			if errors.Is(err, os.ErrPermission) {
				if i == 4 {
					return
				}
				timer := time.NewTimer(200 * time.Millisecond)
				<-timer.C
				timer.Stop()
				continue
			} else {
				return
			}
		}
		break
	}
	return
}
