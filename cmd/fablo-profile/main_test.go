package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const topology = `networkName: net1
networkSettings:
  paths:
    chaincodesBaseDir: /app
orgs:
  - name: Org1
    mspName: Org1MSP
    domain: org1.example.com
    ca: {address: ca.org1.example.com, exposePort: 7054}
    anchorPeers:
      - {address: peer0.org1.example.com, port: 7051}
  - name: Org2
    mspName: Org2MSP
    domain: org2.example.com
    ca: {address: ca.org2.example.com, exposePort: 7064}
    anchorPeers:
      - {address: peer0.org2.example.com, port: 7061}
`

func writeTopology(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fablo-config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestShow(t *testing.T) {
	out, err := execute(t, "show", "Org2", "--config", writeTopology(t, topology), "--log-level", "error")
	if err != nil {
		t.Fatalf("show failed: %v\n%s", err, out)
	}

	var p struct {
		Name          string `json:"name"`
		Organizations map[string]struct {
			MSPID string   `json:"mspid"`
			Peers []string `json:"peers"`
		} `json:"organizations"`
	}
	if err := json.Unmarshal([]byte(out), &p); err != nil {
		t.Fatalf("output is not json: %v\n%s", err, out)
	}
	if p.Name != "test-network-org-net1" {
		t.Errorf("name = %s", p.Name)
	}
	if diff := cmp.Diff([]string{"peer0.org1.example.com", "peer0.org2.example.com"}, p.Organizations["Org2"].Peers); diff != "" {
		t.Errorf("org peers (-want +got):\n%s", diff)
	}
}

func TestShowYAML(t *testing.T) {
	out, err := execute(t, "show", "Org1", "-c", writeTopology(t, topology), "-f", "yaml", "--log-level", "error")
	if err != nil {
		t.Fatalf("show failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "name: test-network-org-net1\n") {
		t.Errorf("unexpected yaml output:\n%s", out)
	}
}

func TestShowUnknownOrg(t *testing.T) {
	if _, err := execute(t, "show", "Org9", "-c", writeTopology(t, topology), "--log-level", "error"); err == nil {
		t.Fatalf("expected an error for an unknown org")
	}
}

func TestGenerate(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "profiles")
	out, err := execute(t, "generate", "-c", writeTopology(t, topology), "-o", outDir, "--log-level", "error")
	if err != nil {
		t.Fatalf("generate failed: %v\n%s", err, out)
	}

	for _, name := range []string{
		"connection-profile-org1.json", "connection-profile-org1.yaml",
		"connection-profile-org2.json", "connection-profile-org2.yaml",
	} {
		path := filepath.Join(outDir, name)
		if _, err := os.Stat(path); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
		if !strings.Contains(out, path) {
			t.Errorf("%s not reported in output", path)
		}
	}
}

func TestGenerateSingleOrg(t *testing.T) {
	outDir := t.TempDir()
	_, err := execute(t, "generate", "-c", writeTopology(t, topology), "-o", outDir, "--org", "Org2", "-f", "json", "--log-level", "error")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "connection-profile-org2.json" {
		t.Errorf("unexpected files in %s: %v", outDir, entries)
	}
}

func TestGenerateRejectsUnknownFormat(t *testing.T) {
	_, err := execute(t, "generate", "-c", writeTopology(t, topology), "-o", t.TempDir(), "-f", "xml", "--log-level", "error")
	if err == nil {
		t.Fatalf("expected an error for an unknown format")
	}
}

func TestValidate(t *testing.T) {
	out, err := execute(t, "validate", "-c", writeTopology(t, topology), "--log-level", "error")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.Contains(out, "network net1 is valid (2 orgs)") {
		t.Errorf("unexpected output %q", out)
	}

	invalid := strings.Replace(topology, "mspName: Org2MSP", "mspName: \"\"", 1)
	if _, err := execute(t, "validate", "-c", writeTopology(t, invalid), "--log-level", "error"); err == nil {
		t.Errorf("expected an error for a missing mspName")
	}
}
