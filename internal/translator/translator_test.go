package translator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGateway(gen generateFunc) *Gateway {
	return &Gateway{gen: gen, log: zap.NewNop(), timeout: time.Second}
}

func TestTranslateEmptyInputSkipsNetworkCall(t *testing.T) {
	called := false
	g := newTestGateway(func(context.Context, string, string) (string, error) {
		called = true
		return "[]", nil
	})

	out := g.Translate(context.Background(), nil, "fr")

	require.Empty(t, out)
	require.False(t, called)
}

func TestTranslateWellFormedResponse(t *testing.T) {
	g := newTestGateway(func(_ context.Context, lang, payload string) (string, error) {
		require.Equal(t, "es", lang)
		require.JSONEq(t, `["Hello","World"]`, payload)
		return `["Hola","Mundo"]`, nil
	})

	out := g.Translate(context.Background(), []string{"Hello", "World"}, "es")
	require.Equal(t, []string{"Hola", "Mundo"}, out)
}

func TestTranslateStripsCodeFences(t *testing.T) {
	g := newTestGateway(func(context.Context, string, string) (string, error) {
		return "```json\n[\"Hola\",\"Mundo\"]\n```", nil
	})

	out := g.Translate(context.Background(), []string{"Hello", "World"}, "es")
	require.Equal(t, []string{"Hola", "Mundo"}, out)
}

func TestTranslateFallsBackOnModelError(t *testing.T) {
	g := newTestGateway(func(context.Context, string, string) (string, error) {
		return "", errors.New("model unavailable")
	})

	in := []string{"Hello", "World"}
	out := g.Translate(context.Background(), in, "es")
	require.Equal(t, in, out)
}

func TestTranslateFallsBackOnMalformedJSON(t *testing.T) {
	for _, raw := range []string{
		"I'm sorry, I can't do that.",
		`{"not": "an array"}`,
		`[1, 2, 3]`,
		"```\nnot json either\n```",
	} {
		g := newTestGateway(func(context.Context, string, string) (string, error) {
			return raw, nil
		})

		in := []string{"Hello", "World"}
		out := g.Translate(context.Background(), in, "es")
		require.Equal(t, in, out, "input %q should fall back", raw)
	}
}

func TestTranslateNeverShrinksOnFallback(t *testing.T) {
	g := newTestGateway(func(context.Context, string, string) (string, error) {
		return "", errors.New("boom")
	})

	in := []string{"a", "b", "c", "d"}
	out := g.Translate(context.Background(), in, "de")
	require.Len(t, out, len(in))
}

func TestStripCodeFences(t *testing.T) {
	cases := map[string]string{
		"```json\n[\"a\"]\n```": `["a"]`,
		"```\n[\"a\"]\n```":     `["a"]`,
		`["a"]`:                 `["a"]`,
		"  [\"a\"]  ":           `["a"]`,
	}
	for in, want := range cases {
		require.Equal(t, want, stripCodeFences(in))
	}
}
