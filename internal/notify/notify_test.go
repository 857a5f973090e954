package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	messages []string
}

func (r *recorder) ReportError(message string) {
	r.messages = append(r.messages, message)
}

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	NewWriterNotifier(&buf).ReportError("Failed to add product")
	assert.Equal(t, "error: Failed to add product\n", buf.String())
}

func TestMulti(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Multi{a, b}.ReportError("x")

	assert.Equal(t, []string{"x"}, a.messages)
	assert.Equal(t, []string{"x"}, b.messages)
}
