package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateWorkbook(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "assessment.xlsx")
	require.NoError(t, os.WriteFile(good, []byte("PK\x03\x04stub"), 0644))

	empty := filepath.Join(dir, "empty.xlsx")
	require.NoError(t, os.WriteFile(empty, nil, 0644))

	subdir := filepath.Join(dir, "folder.xlsx")
	require.NoError(t, os.Mkdir(subdir, 0755))

	v := NewWorkbookValidator(nil)

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{name: "valid file", path: good},
		{name: "empty path", path: "  ", wantErr: "path is empty"},
		{name: "wrong extension", path: filepath.Join(dir, "data.csv"), wantErr: "unsupported extension"},
		{name: "missing file", path: filepath.Join(dir, "gone.xlsx"), wantErr: "does not exist"},
		{name: "empty file", path: empty, wantErr: "is empty"},
		{name: "directory", path: subdir, wantErr: "is a directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateWorkbook(tt.path)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateUploadName(t *testing.T) {
	v := NewWorkbookValidator(nil)

	assert.NoError(t, v.ValidateUploadName("pre.xlsx"))
	assert.NoError(t, v.ValidateUploadName("2025-05/pre.xlsx"))
	assert.NoError(t, v.ValidateUploadName("/abs/path/pre.xlsx"))
	assert.Error(t, v.ValidateUploadName("../outside.xlsx"))
	assert.Error(t, v.ValidateUploadName("a/../../outside.xlsx"))
	assert.Error(t, v.ValidateUploadName(""))
}

func TestValidateOutputDirectory(t *testing.T) {
	v := NewWorkbookValidator(nil)

	dir := filepath.Join(t.TempDir(), "exports", "nested")
	require.NoError(t, v.ValidateOutputDirectory(dir))
	assert.DirExists(t, dir)
}
