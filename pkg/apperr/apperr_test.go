package apperr

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: fmt.Errorf("%w: doctor", ErrNotFound), want: http.StatusNotFound},
		{name: "invalid request", err: fmt.Errorf("%w: quantity", ErrInvalidRequest), want: http.StatusBadRequest},
		{name: "slot unavailable", err: ErrSlotUnavailable, want: http.StatusConflict},
		{name: "invalid transition", err: fmt.Errorf("%w: cancelled", ErrInvalidTransition), want: http.StatusConflict},
		{name: "prescription", err: ErrPrescriptionRequired, want: http.StatusUnprocessableEntity},
		{name: "storage", err: errors.New("connection refused"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Status(tt.err))
			assert.Equal(t, tt.want != http.StatusInternalServerError, IsBusiness(tt.err))
		})
	}
}

func TestHTTP(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewJSONHandler(&buf, nil))

	he := HTTP(l, "book_failed", fmt.Errorf("%w: 09:00 is taken", ErrSlotUnavailable))
	assert.Equal(t, http.StatusConflict, he.Code)
	assert.Equal(t, "slot unavailable: 09:00 is taken", he.Message)
	assert.Contains(t, buf.String(), `"level":"WARN"`)

	buf.Reset()
	he = HTTP(l, "book_failed", errors.New("disk full"))
	assert.Equal(t, http.StatusInternalServerError, he.Code)
	assert.Equal(t, "internal error", he.Message)
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
	assert.Contains(t, buf.String(), "disk full")
}
