package subtext

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormat_RoundTripWithoutCode(t *testing.T) {
	inputs := []string{
		"",
		"# Title\n\n  \nplain text",
		"$color red fox\n$solo\n-  two spaces\n>quote\n>  https://x.y/z\n12.\tBuy milk",
		"Go to [[My Note]] and /notes/today.\n[[a [b] c]]\n",
		"# T\xffitle\na\xffb [[x\xfe]]",
	}
	for _, in := range inputs {
		require.Equal(t, in, Format(mustParse(t, in)), "input %q", in)
	}
}

func TestFormat_NormalizesLineEndings(t *testing.T) {
	require.Equal(t, "a\nb\n", Format(mustParse(t, "a\r\nb\r")))
}

func TestFormat_Code(t *testing.T) {
	in := strings.Join([]string{"``` js", "let x = 1;", "\\```", "```", "after"}, "\n")
	require.Equal(t, in, Format(mustParse(t, in)))

	unterminated := "```\nbody"
	require.Equal(t, "```\nbody\n```", Format(mustParse(t, unterminated)))
}
