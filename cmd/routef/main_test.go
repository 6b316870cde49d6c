// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/routef/blob/master/LICENSE.txt.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTable = `
routes:
  - pattern: /item/new
    body: new
  - method: GET
    pattern: /item/%i
    body: "item {0}"
  - pattern: /geo/%f,%f
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	name := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(name, []byte(testTable), 0o600))

	buf := bytes.NewBuffer(nil)
	cmd := rootCmd()
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append([]string{"--table", name}, args...))
	err := cmd.Execute()
	return buf.String(), err
}

func TestMatchCmd(t *testing.T) {
	cases := []struct {
		name    string
		args    []string
		want    string
		wantErr error
	}{
		{
			name: "literal wins over typed",
			args: []string{"match", "/item/new"},
			want: "/item/new\n",
		},
		{
			name: "typed with method",
			args: []string{"match", "/item/42"},
			want: "GET /item/%i\n  0 %i = 42\n",
		},
		{
			name: "float segments",
			args: []string{"match", "-X", "post", "/geo/1.25,-3"},
			want: "/geo/%f,%f\n  0 %f = 1.25\n  1 %f = -3\n",
		},
		{
			name:    "method guard",
			args:    []string{"match", "-X", "POST", "/item/42"},
			wantErr: errNoMatch,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := execute(t, tc.args...)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, out)
		})
	}
}

func TestTreeCmd(t *testing.T) {
	out, err := execute(t, "tree", "--routes")
	require.NoError(t, err)
	assert.Equal(t, "*       /item/new\nGET     /item/%i\n*       /geo/%f,%f\n", out)

	out, err = execute(t, "tree")
	require.NoError(t, err)
	assert.Contains(t, out, "method: GET")
	assert.Contains(t, out, "match: %f until [',']")
}

func TestRootCmd_MissingTable(t *testing.T) {
	cmd := rootCmd()
	cmd.SetArgs([]string{"--table", filepath.Join(t.TempDir(), "missing.yaml"), "tree"})
	cmd.SetOut(bytes.NewBuffer(nil))
	assert.Error(t, cmd.Execute())
}
