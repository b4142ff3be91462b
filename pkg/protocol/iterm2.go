package protocol

import (
	"encoding/base64"
	"fmt"
	"io"
)

// ITerm2 encodes images with the iTerm2 inline image protocol
// (https://iterm2.com/documentation-images.html).
type ITerm2 struct{}

func (ITerm2) Name() string { return "iterm" }

// Encode stretches the image over cellWidth columns and one line.
func (ITerm2) Encode(png []byte, cellWidth int) string {
	return fmt.Sprintf("\x1b]1337;File=size=%d;width=%d;height=1;preserveAspectRatio=0;inline=1:%s\a",
		len(png), cellWidth, base64.StdEncoding.EncodeToString(png))
}

// ClearLine does nothing: iTerm2 images are replaced by the text drawn
// over them.
func (ITerm2) ClearLine(io.Writer, int) {}
