package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPrintCmd(buf *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.SetOut(buf)
	return cmd
}

func TestPrintResult(t *testing.T) {
	t.Run("JSONOutput", func(t *testing.T) {
		buf := new(bytes.Buffer)
		cmd := newPrintCmd(buf)
		flags := &GlobalFlags{Output: OutputJSON}

		payload := map[string]any{"outcome": "merged", "pr_number": 42}
		err := printResult(cmd, flags, payload, func(w io.Writer, _ *outputStyles) {
			_, _ = fmt.Fprintln(w, "should not appear")
		})
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "merged", decoded["outcome"])
		assert.InDelta(t, 42, decoded["pr_number"], 0)
		assert.NotContains(t, buf.String(), "should not appear")
	})

	t.Run("TextOutput", func(t *testing.T) {
		buf := new(bytes.Buffer)
		cmd := newPrintCmd(buf)
		flags := &GlobalFlags{Output: OutputText}

		err := printResult(cmd, flags, nil, func(w io.Writer, styles *outputStyles) {
			_, _ = fmt.Fprintln(w, styles.success.Render("done"))
		})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "done")
	})
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", firstNonEmpty("a", "b"))
	assert.Equal(t, "b", firstNonEmpty("", "b"))
	assert.Equal(t, "", firstNonEmpty("", ""))
	assert.Equal(t, "c", firstNonEmpty("", "", "c"))
}
