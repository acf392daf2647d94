package scripts

import "strings"

const (
	Speaker1Tag = "SPEAKER1"
	Speaker2Tag = "SPEAKER2"

	// TurnWords is the number of words per speaker turn.
	TurnWords = 10

	conversationPreamble = "TTS the following conversation between SPEAKER1 and SPEAKER2:\n"
)

// Turn is one speaker-tagged slice of a script.
type Turn struct {
	Speaker string
	Text    string
}

// SegmentTurns splits text on whitespace into chunks of chunkSize words and
// tags them alternately SPEAKER1, SPEAKER2, starting with SPEAKER1.
func SegmentTurns(text string, chunkSize int) []Turn {
	if chunkSize <= 0 {
		chunkSize = TurnWords
	}
	words := strings.Fields(text)
	turns := make([]Turn, 0, (len(words)+chunkSize-1)/chunkSize)
	for i := 0; i < len(words); i += chunkSize {
		end := min(i+chunkSize, len(words))
		speaker := Speaker1Tag
		if len(turns)%2 == 1 {
			speaker = Speaker2Tag
		}
		turns = append(turns, Turn{
			Speaker: speaker,
			Text:    strings.Join(words[i:end], " "),
		})
	}
	return turns
}

// FormatConversation renders text as the two-speaker transcript the speech
// service expects.
func FormatConversation(text string) string {
	var sb strings.Builder
	sb.WriteString(conversationPreamble)
	for _, turn := range SegmentTurns(text, TurnWords) {
		sb.WriteString(turn.Speaker)
		sb.WriteString(": ")
		sb.WriteString(turn.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}
