package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAnalyzer struct {
	single []string
	many   [][]string
	result string
	err    error
}

func (m *mockAnalyzer) Analyze(_ context.Context, path string) (string, error) {
	m.single = append(m.single, path)
	return m.result, m.err
}

func (m *mockAnalyzer) AnalyzeMany(_ context.Context, paths []string) (string, error) {
	m.many = append(m.many, paths)
	return m.result, m.err
}

// useAnalyzer swaps in m for the duration of a test.
func useAnalyzer(t *testing.T, m topicAnalyzer, buildErr error) {
	t.Helper()
	old := newAnalyzer
	newAnalyzer = func(*logrus.Logger) (topicAnalyzer, error) {
		if buildErr != nil {
			return nil, buildErr
		}
		return m, nil
	}
	t.Cleanup(func() { newAnalyzer = old })
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	out, err := execute(t, "version")

	assert.NoError(t, err)
	assert.Contains(t, out, "examtopics version test-version-1.0.0")
}

func TestAnalyzeCmd_Use(t *testing.T) {
	assert.Equal(t, "analyze <file.pdf>...", analyzeCmd.Use)
}

func TestAnalyzeCmd_HasTimeoutFlag(t *testing.T) {
	flag := analyzeCmd.Flags().Lookup("timeout")
	require.NotNil(t, flag, "timeout flag should exist")
	assert.Equal(t, "2m0s", flag.DefValue)
}

func TestAnalyzeCmd_RequiresAFile(t *testing.T) {
	_, err := execute(t, "analyze")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestAnalyzeCmd_SingleFile(t *testing.T) {
	m := &mockAnalyzer{result: "- **Optics**: lenses"}
	useAnalyzer(t, m, nil)

	out, err := execute(t, "analyze", "2023.pdf")

	require.NoError(t, err)
	assert.Contains(t, out, "- **Optics**: lenses")
	assert.Equal(t, []string{"2023.pdf"}, m.single)
	assert.Empty(t, m.many)
}

func TestAnalyzeCmd_ManyFilesKeepOrder(t *testing.T) {
	m := &mockAnalyzer{result: "- **Optics**: lenses"}
	useAnalyzer(t, m, nil)

	_, err := execute(t, "analyze", "2021.pdf", "2022.pdf", "2023.pdf")

	require.NoError(t, err)
	require.Len(t, m.many, 1)
	assert.Equal(t, []string{"2021.pdf", "2022.pdf", "2023.pdf"}, m.many[0])
	assert.Empty(t, m.single)
}

func TestAnalyzeCmd_Errors(t *testing.T) {
	tests := []struct {
		name     string
		buildErr error
		runErr   error
		want     string
	}{
		{name: "analyzer unavailable", buildErr: errors.New("GEMINI_API_KEY is not set"), want: "GEMINI_API_KEY is not set"},
		{name: "analysis fails", runErr: errors.New("boom"), want: "analysis failed: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useAnalyzer(t, &mockAnalyzer{err: tt.runErr}, tt.buildErr)

			_, err := execute(t, "analyze", "paper.pdf")

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
