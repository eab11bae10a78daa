package format

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifiedDiff(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want string
	}{
		{
			name: "equal",
			a:    "a\nb\n",
			b:    "a\nb\n",
			want: "",
		},
		{
			name: "changed line",
			a:    "a\nb\nc\n",
			b:    "a\nB\nc\n",
			want: "--- a\n+++ b\n@@ -1,3 +1,3 @@\n a\n-b\n+B\n c\n",
		},
		{
			name: "added line",
			a:    "a\n",
			b:    "a\nb\n",
			want: "--- a\n+++ b\n@@ -1,1 +1,2 @@\n a\n+b\n",
		},
		{
			name: "into empty",
			a:    "",
			b:    "x\n",
			want: "--- a\n+++ b\n@@ -0,0 +1,1 @@\n+x\n",
		},
		{
			name: "missing final newline",
			a:    "x",
			b:    "y",
			want: "--- a\n+++ b\n@@ -1,1 +1,1 @@\n-x\n\\ No newline at end of file\n+y\n\\ No newline at end of file\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UnifiedDiff(tt.a, tt.b))
		})
	}
}

func TestUnifiedDiffSplitsDistantChanges(t *testing.T) {
	var a, b []string
	for i := 1; i <= 20; i++ {
		line := fmt.Sprint(i)
		a = append(a, line)
		switch i {
		case 2:
			line = "two"
		case 18:
			line = "eighteen"
		}
		b = append(b, line)
	}

	got := UnifiedDiffNamed("Base.java", "Base.java", strings.Join(a, "\n")+"\n", strings.Join(b, "\n")+"\n")
	assert.True(t, strings.HasPrefix(got, "--- Base.java\n+++ Base.java\n"))
	assert.Equal(t, 2, strings.Count(got, "@@ -"))
	assert.Contains(t, got, "@@ -1,5 +1,5 @@\n 1\n-2\n+two\n 3\n 4\n 5\n")
	assert.Contains(t, got, "@@ -15,6 +15,6 @@\n 15\n 16\n 17\n-18\n+eighteen\n 19\n 20\n")
}

func TestDiffWriter(t *testing.T) {
	saved := color.NoColor
	defer func() { color.NoColor = saved }()

	t.Run("colored", func(t *testing.T) {
		color.NoColor = false
		var buf bytes.Buffer
		w := NewDiffWriter(&buf)
		_, err := w.Write([]byte("--- a\n+++ b\n@@ -1 +1 @@\n-x\n+y\n z"))
		require.NoError(t, err)
		require.NoError(t, w.Flush())

		out := buf.String()
		assert.Contains(t, out, "\x1b[31m-x\x1b[0m\n")
		assert.Contains(t, out, "\x1b[32m+y\x1b[0m\n")
		assert.Contains(t, out, "\x1b[36m@@ -1 +1 @@\x1b[0m\n")
		assert.True(t, strings.HasSuffix(out, "\n z"))
	})

	t.Run("plain", func(t *testing.T) {
		color.NoColor = true
		var buf bytes.Buffer
		w := NewDiffWriter(&buf)
		diff := UnifiedDiff("a\n", "b\n")
		_, err := w.Write([]byte(diff[:7]))
		require.NoError(t, err)
		_, err = w.Write([]byte(diff[7:]))
		require.NoError(t, err)
		require.NoError(t, w.Flush())
		assert.Equal(t, diff, buf.String())
	})
}
