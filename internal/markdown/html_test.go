package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLText(t *testing.T) {
	lines, err := htmlText([]byte(`<table><tr><td>a</td><td>b</td></tr><tr><td><a href="/docs/c.html">c</a></td></tr></table><!-- note --><style>p{}</style>`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a b", "[[/docs/c]]"}, lines)

	lines, err = htmlText([]byte(`<a href="">label only</a>`))
	require.NoError(t, err)
	assert.Equal(t, []string{"label only"}, lines)
}
