package scripts

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func words(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("w%d", i+1)
	}
	return out
}

func TestSegmentTurnsAlternatesSpeakers(t *testing.T) {
	w := words(25)
	turns := SegmentTurns(strings.Join(w, " "), 10)

	require.Len(t, turns, 3)
	require.Equal(t, Speaker1Tag, turns[0].Speaker)
	require.Equal(t, Speaker2Tag, turns[1].Speaker)
	require.Equal(t, Speaker1Tag, turns[2].Speaker)
	require.Equal(t, strings.Join(w[0:10], " "), turns[0].Text)
	require.Equal(t, strings.Join(w[10:20], " "), turns[1].Text)
	require.Equal(t, strings.Join(w[20:25], " "), turns[2].Text)
}

func TestSegmentTurnsCollapsesWhitespace(t *testing.T) {
	turns := SegmentTurns("  one\ttwo \n\n three  ", 2)

	require.Equal(t, []Turn{
		{Speaker: Speaker1Tag, Text: "one two"},
		{Speaker: Speaker2Tag, Text: "three"},
	}, turns)
}

func TestSegmentTurnsEmpty(t *testing.T) {
	require.Empty(t, SegmentTurns("   ", 10))
}

func TestFormatConversation(t *testing.T) {
	w := words(12)
	got := FormatConversation(strings.Join(w, " "))

	want := "TTS the following conversation between SPEAKER1 and SPEAKER2:\n" +
		"SPEAKER1: " + strings.Join(w[:10], " ") + "\n" +
		"SPEAKER2: w11 w12\n"
	require.Equal(t, want, got)
}
