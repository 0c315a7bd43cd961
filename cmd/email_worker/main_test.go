package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	to, subject, text string
	err               error
}

func (s *recordingSender) Send(_ context.Context, to, subject, text, _ string) error {
	s.to, s.subject, s.text = to, subject, text
	return s.err
}

func TestHandleSendsComposedMail(t *testing.T) {
	s := &recordingSender{}
	err := handle(context.Background(), s, []byte(`{"to":"asha@college.test","subject":"Hello","text":"Welcome aboard"}`))
	require.NoError(t, err)
	assert.Equal(t, "asha@college.test", s.to)
	assert.Equal(t, "Hello", s.subject)
	assert.Equal(t, "Welcome aboard", s.text)
}

func TestHandleDropsPoisonMessages(t *testing.T) {
	for name, body := range map[string]string{
		"not json":         `{"to":`,
		"no recipient":     `{"subject":"x","text":"y"}`,
		"unknown template": `{"to":"a@b.test","template":"newsletter"}`,
	} {
		t.Run(name, func(t *testing.T) {
			err := handle(context.Background(), &recordingSender{}, []byte(body))
			assert.ErrorIs(t, err, errPoison)
		})
	}
}

func TestHandleRetriesSendFailures(t *testing.T) {
	s := &recordingSender{err: errors.New("mailgun 503")}
	err := handle(context.Background(), s, []byte(`{"to":"a@b.test","subject":"x","text":"y"}`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, errPoison)
}
