package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synaptica-ai/requestmapping/pkg/datamapper"
)

func TestMapCommandReadsStdin(t *testing.T) {
	cmd := mapCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(`{"name":"Jane Doe","doctor":"Dr. Smith","cardNo":"4111111111111111"}`))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.JSONEq(t, `{"patient":{"name":"Jane Doe","dob":"","ssn":"","address":"","phone":"","email":""},
		"doctor":"Dr. Smith","hospital_id":"","hospital":"","appointment_date":""}`, out.String())
}

func TestMapCommandReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intake.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"hospital_id":"H100"}`), 0o600))

	cmd := mapCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--file", path, "--pretty"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), `"hospital_id": "H100"`)
}

func TestMapCommandAcceptsWrongTypedField(t *testing.T) {
	cmd := mapCmd()
	var out bytes.Buffer
	cmd.SetIn(strings.NewReader(`{"name":"Jane Doe","hospital_id":100}`))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), `"hospital_id":""`)
	assert.Contains(t, out.String(), `"name":"Jane Doe"`)
}

func TestMapCommandRejectsMalformedInput(t *testing.T) {
	cmd := mapCmd()
	cmd.SetIn(strings.NewReader(`{"name":`))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, datamapper.IsDecodeError(err))
}

func TestSchemaCommand(t *testing.T) {
	cmd := schemaCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--format", "yaml"})

	require.NoError(t, cmd.Execute())
	parsed, err := datamapper.ParseDescriptor(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, datamapper.DefaultDescriptor(), parsed)
}

func TestSchemaCommandRejectsUnknownFormat(t *testing.T) {
	cmd := schemaCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "xml"})
	assert.Error(t, cmd.Execute())
}
