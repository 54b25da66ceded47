package nftlabs

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/nftlabs/mintflow/common/errs"
)

type Template string

const TemplateERC721Mintable Template = "ERC721Mintable"

type DeployParams struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	ContractURI string `json:"contractURI"`
}

func (p DeployParams) validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return errors.Wrap(errs.InvalidArgument, "contract name is required")
	case strings.TrimSpace(p.Symbol) == "":
		return errors.Wrap(errs.InvalidArgument, "contract symbol is required")
	case p.ContractURI == "":
		return errors.Wrap(errs.InvalidArgument, "contract uri is required")
	}
	return nil
}

// Artifact is the compiled form of a template.
type Artifact struct {
	ContractName string
	Bytecode     []byte
}

// artifactFile covers both hardhat ("bytecode": "0x..") and foundry
// ("bytecode": {"object": "0x.."}) artifact layouts.
type artifactFile struct {
	ContractName string          `json:"contractName"`
	Bytecode     json.RawMessage `json:"bytecode"`
}

func LoadArtifact(path string) (*Artifact, error) {
	if path == "" {
		return nil, errors.Wrap(errs.MissingConfig, "template artifact path (TEMPLATE_ARTIFACT)")
	}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Mark(errors.Wrapf(err, "artifact %q not found, build contracts/ first", path), errs.MissingConfig)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "can't read artifact %q", path)
	}
	return ParseArtifact(raw)
}

func ParseArtifact(raw []byte) (*Artifact, error) {
	var file artifactFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, &UnmarshalError{body: truncate(string(raw), 128), typeName: "artifact", UnderlyingError: err}
	}

	var code string
	if err := json.Unmarshal(file.Bytecode, &code); err != nil {
		var foundry struct {
			Object string `json:"object"`
		}
		if err := json.Unmarshal(file.Bytecode, &foundry); err != nil {
			return nil, errors.Wrap(errs.InvalidArgument, "artifact bytecode is neither a string nor an object")
		}
		code = foundry.Object
	}

	if !strings.HasPrefix(code, "0x") {
		code = "0x" + code
	}
	bytecode, err := hexutil.Decode(code)
	if err != nil {
		return nil, errors.Wrap(errs.InvalidArgument, "artifact bytecode is not valid hex")
	}
	if len(bytecode) == 0 {
		return nil, errors.Wrap(errs.InvalidArgument, "artifact has empty bytecode, is the contract abstract?")
	}

	return &Artifact{ContractName: file.ContractName, Bytecode: bytecode}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
