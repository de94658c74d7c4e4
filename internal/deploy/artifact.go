package deploy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ErrArtifactNotFound is returned when no artifact for the contract exists
var ErrArtifactNotFound = errors.New("contract artifact not found")

// Artifact is a compiled contract: its ABI and creation bytecode
type Artifact struct {
	ContractName string
	ABI          abi.ABI
	Bytecode     []byte
}

// artifactFile covers Hardhat artifacts ("bytecode": "0x...") and Foundry
// output ("bytecode": {"object": "0x..."}).
type artifactFile struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     bytecodeField   `json:"bytecode"`
}

type bytecodeField string

func (b *bytecodeField) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		var obj struct {
			Object string `json:"object"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*b = bytecodeField(obj.Object)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*b = bytecodeField(s)
	return nil
}

// ParseArtifact decodes an artifact. name is used when the file carries no contractName.
func ParseArtifact(data []byte, name string) (*Artifact, error) {
	var f artifactFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal artifact: %w", err)
	}
	if f.ContractName == "" {
		f.ContractName = name
	}
	if len(f.ABI) == 0 {
		return nil, fmt.Errorf("artifact %s has no abi", f.ContractName)
	}

	parsedABI, err := abi.JSON(bytes.NewReader(f.ABI))
	if err != nil {
		return nil, fmt.Errorf("parse %s ABI: %w", f.ContractName, err)
	}

	code := strings.TrimSpace(string(f.Bytecode))
	if code == "" || code == "0x" {
		// interfaces and abstract contracts compile to empty bytecode
		return nil, fmt.Errorf("artifact %s has no bytecode", f.ContractName)
	}
	if !strings.HasPrefix(code, "0x") {
		code = "0x" + code
	}
	bytecode, err := hexutil.Decode(code)
	if err != nil {
		return nil, fmt.Errorf("decode %s bytecode: %w", f.ContractName, err)
	}

	return &Artifact{
		ContractName: f.ContractName,
		ABI:          parsedABI,
		Bytecode:     bytecode,
	}, nil
}

// LoadArtifact reads an artifact file
func LoadArtifact(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ParseArtifact(data, name)
}

// FindArtifact resolves the artifact of contract below dir, e.g.
// artifacts/contracts/Lock.sol/Lock.json (Hardhat) or out/Lock.sol/Lock.json (Foundry).
// If path is a file it is loaded directly and must describe contract.
func FindArtifact(path, contract string) (*Artifact, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if !info.IsDir() {
		a, err := LoadArtifact(path)
		if err != nil {
			return nil, err
		}
		if contract != "" && a.ContractName != contract {
			return nil, fmt.Errorf("artifact %s describes %s, not %s", path, a.ContractName, contract)
		}
		return a, nil
	}

	if contract == "" {
		return nil, errors.New("contract name is required when searching a directory")
	}

	var found string
	target := contract + ".json"
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Hardhat keeps build info next to artifacts
			if d.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == target {
			found = p
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", path, err)
	}
	if found == "" {
		return nil, fmt.Errorf("%w: %s in %s", ErrArtifactNotFound, contract, path)
	}
	return LoadArtifact(found)
}
