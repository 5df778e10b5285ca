package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stepByStepJSON = `{
  "decoratorName": "StepByStep",
  "version": "1.0.0",
  "description": "Break reasoning into explicit steps.",
  "parameters": [
    {"name": "numbered", "type": "boolean", "default": true}
  ]
}`

const debateJSON = `{
  "decoratorName": "Debate",
  "version": "1.2.0",
  "description": "Presents multiple sides of an argument.",
  "parameters": [
    {"name": "style", "type": "enum", "enum": ["formal", "casual"], "default": "formal"}
  ]
}`

// writeRegistry lays out a small category-structured registry.
func writeRegistry(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "registry")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "reasoning"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "argumentation"), 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "reasoning", "step_by_step.json"), []byte(stepByStepJSON), 0644))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "argumentation", "debate.json"), []byte(debateJSON), 0644))
	return root
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerate_WritesDecoratorPackage(t *testing.T) {
	registry := writeRegistry(t)
	outputDir := filepath.Join(t.TempDir(), "generated")

	out, err := execute(t, "generate", "--registry-dir", registry, "--output-dir", outputDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Generated")

	for _, name := range []string{"step_by_step.py", "debate.py", "enums.py", "__init__.py"} {
		_, statErr := os.Stat(filepath.Join(outputDir, name))
		assert.NoError(t, statErr, "expected generated file %s", name)
	}

	index, readErr := os.ReadFile(filepath.Join(outputDir, "__init__.py"))
	require.NoError(t, readErr)
	assert.Contains(t, string(index), `"StepByStep": StepByStep,`)
}

func TestGenerate_CheckCleanAfterGenerate(t *testing.T) {
	registry := writeRegistry(t)
	outputDir := filepath.Join(t.TempDir(), "generated")

	_, err := execute(t, "generate", "--registry-dir", registry, "--output-dir", outputDir)
	require.NoError(t, err)

	out, err := execute(t, "generate", "--registry-dir", registry, "--output-dir", outputDir, "--check")
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")
}

func TestGenerate_CheckDetectsDrift(t *testing.T) {
	registry := writeRegistry(t)
	outputDir := filepath.Join(t.TempDir(), "generated")

	_, err := execute(t, "generate", "--registry-dir", registry, "--output-dir", outputDir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(outputDir, "debate.py"), []byte("tampered\n"), 0644))

	out, err := execute(t, "generate", "--registry-dir", registry, "--output-dir", outputDir, "--check")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "debate.py")
}

func TestGenerate_DuplicateNameIsHardFailure(t *testing.T) {
	registry := writeRegistry(t)
	// Same decoratorName in a second file.
	require.NoError(t, os.WriteFile(
		filepath.Join(registry, "reasoning", "copy.json"), []byte(stepByStepJSON), 0644))
	outputDir := filepath.Join(t.TempDir(), "generated")

	out, err := execute(t, "generate", "--registry-dir", registry, "--output-dir", outputDir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "E101")

	// Hard failures must not leave partial output behind.
	_, statErr := os.Stat(outputDir)
	assert.True(t, os.IsNotExist(statErr), "no output may be written on hard failure")
}

func TestGenerate_MalformedFileIsSoftWarning(t *testing.T) {
	registry := writeRegistry(t)
	require.NoError(t, os.WriteFile(
		filepath.Join(registry, "reasoning", "broken.json"), []byte("{not json"), 0644))
	outputDir := filepath.Join(t.TempDir(), "generated")

	out, err := execute(t, "generate", "--registry-dir", registry, "--output-dir", outputDir)
	require.NoError(t, err, "soft failures never abort the run")
	assert.Contains(t, out, "1 file(s) rejected")
}

func TestGenerate_MissingRegistryIsCommandError(t *testing.T) {
	out, err := execute(t, "generate",
		"--registry-dir", filepath.Join(t.TempDir(), "absent"),
		"--output-dir", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "E005")
}

func TestGenerate_ConfigFileSuppliesDirs(t *testing.T) {
	registry := writeRegistry(t)
	outputDir := filepath.Join(t.TempDir(), "generated")
	configPath := filepath.Join(t.TempDir(), "decforge.yaml")
	config := "registry_dir: " + registry + "\noutput_dir: " + outputDir + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(config), 0644))

	_, err := execute(t, "generate", "--config", configPath)
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(outputDir, "debate.py"))
	assert.NoError(t, statErr)
}

func TestTests_WritesPytestSuite(t *testing.T) {
	registry := writeRegistry(t)
	testsDir := filepath.Join(t.TempDir(), "generated_tests")

	out, err := execute(t, "tests", "--registry-dir", registry, "--tests-dir", testsDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Generated")

	for _, name := range []string{"test_step_by_step.py", "test_debate.py", "helpers.py", "conftest.py"} {
		_, statErr := os.Stat(filepath.Join(testsDir, name))
		assert.NoError(t, statErr, "expected generated test file %s", name)
	}
}

func TestScan_ReportsByCategory(t *testing.T) {
	registry := writeRegistry(t)

	out, err := execute(t, "scan", "--registry-dir", registry)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ Accepted 2 definition(s)")
	assert.Contains(t, out, "argumentation:")
	assert.Contains(t, out, "Debate v1.2.0: 1 parameter(s)")
	assert.Contains(t, out, "reasoning:")
	assert.Contains(t, out, "StepByStep v1.0.0: 1 parameter(s)")
}

func TestScan_JSONFormat(t *testing.T) {
	registry := writeRegistry(t)

	out, err := execute(t, "scan", "--registry-dir", registry, "--format", "json")
	require.NoError(t, err)

	assert.Contains(t, out, `"status": "ok"`)
	assert.Contains(t, out, `"file_count": 2`)
}
