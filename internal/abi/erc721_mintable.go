// Code shaped after abigen output for the ERC721Mintable template.
// The deployment bytecode is not embedded, it is supplied by the compiled artifact.

package abi

import (
	"math/big"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ERC721MintableMetaData contains all meta data concerning the ERC721Mintable contract.
var ERC721MintableMetaData = &bind.MetaData{
	ABI: `[
	{"type":"constructor","stateMutability":"nonpayable","inputs":[
		{"name":"name_","type":"string","internalType":"string"},
		{"name":"symbol_","type":"string","internalType":"string"},
		{"name":"contractURI_","type":"string","internalType":"string"}]},
	{"type":"function","name":"mintWithTokenURI","stateMutability":"nonpayable","inputs":[
		{"name":"to","type":"address","internalType":"address"},
		{"name":"tokenURI_","type":"string","internalType":"string"}],
		"outputs":[{"name":"","type":"uint256","internalType":"uint256"}]},
	{"type":"function","name":"setContractURI","stateMutability":"nonpayable","inputs":[
		{"name":"contractURI_","type":"string","internalType":"string"}],"outputs":[]},
	{"type":"function","name":"contractURI","stateMutability":"view","inputs":[],
		"outputs":[{"name":"","type":"string","internalType":"string"}]},
	{"type":"function","name":"tokenURI","stateMutability":"view","inputs":[
		{"name":"tokenId","type":"uint256","internalType":"uint256"}],
		"outputs":[{"name":"","type":"string","internalType":"string"}]},
	{"type":"function","name":"name","stateMutability":"view","inputs":[],
		"outputs":[{"name":"","type":"string","internalType":"string"}]},
	{"type":"function","name":"symbol","stateMutability":"view","inputs":[],
		"outputs":[{"name":"","type":"string","internalType":"string"}]},
	{"type":"function","name":"owner","stateMutability":"view","inputs":[],
		"outputs":[{"name":"","type":"address","internalType":"address"}]},
	{"type":"function","name":"ownerOf","stateMutability":"view","inputs":[
		{"name":"tokenId","type":"uint256","internalType":"uint256"}],
		"outputs":[{"name":"","type":"address","internalType":"address"}]},
	{"type":"function","name":"balanceOf","stateMutability":"view","inputs":[
		{"name":"owner","type":"address","internalType":"address"}],
		"outputs":[{"name":"","type":"uint256","internalType":"uint256"}]},
	{"type":"function","name":"totalSupply","stateMutability":"view","inputs":[],
		"outputs":[{"name":"","type":"uint256","internalType":"uint256"}]},
	{"type":"event","name":"Transfer","anonymous":false,"inputs":[
		{"name":"from","type":"address","indexed":true,"internalType":"address"},
		{"name":"to","type":"address","indexed":true,"internalType":"address"},
		{"name":"tokenId","type":"uint256","indexed":true,"internalType":"uint256"}]}
]`,
}

// ERC721Mintable is an auto generated Go binding around an Ethereum contract.
type ERC721Mintable struct {
	ERC721MintableCaller     // Read-only binding to the contract
	ERC721MintableTransactor // Write-only binding to the contract
	ERC721MintableFilterer   // Log filterer for contract events
}

// ERC721MintableCaller is an auto generated read-only Go binding around an Ethereum contract.
type ERC721MintableCaller struct {
	contract *bind.BoundContract
}

// ERC721MintableTransactor is an auto generated write-only Go binding around an Ethereum contract.
type ERC721MintableTransactor struct {
	contract *bind.BoundContract
}

// ERC721MintableFilterer is an auto generated log filtering Go binding around an Ethereum contract events.
type ERC721MintableFilterer struct {
	contract *bind.BoundContract
}

// ERC721MintableTransfer represents a Transfer event raised by the ERC721Mintable contract.
type ERC721MintableTransfer struct {
	From    common.Address
	To      common.Address
	TokenId *big.Int
	Raw     types.Log // Blockchain specific contextual infos
}

// DeployERC721Mintable deploys a new Ethereum contract, binding an instance of ERC721Mintable to it.
func DeployERC721Mintable(auth *bind.TransactOpts, backend bind.ContractBackend, bytecode []byte, name string, symbol string, contractURI string) (common.Address, *types.Transaction, *ERC721Mintable, error) {
	parsed, err := ERC721MintableMetaData.GetAbi()
	if err != nil {
		return common.Address{}, nil, nil, err
	}
	if parsed == nil {
		return common.Address{}, nil, nil, errors.New("GetABI returned nil")
	}
	if len(bytecode) == 0 {
		return common.Address{}, nil, nil, errors.New("empty deployment bytecode")
	}

	address, tx, contract, err := bind.DeployContract(auth, *parsed, bytecode, backend, name, symbol, contractURI)
	if err != nil {
		return common.Address{}, nil, nil, err
	}
	return address, tx, &ERC721Mintable{
		ERC721MintableCaller:     ERC721MintableCaller{contract: contract},
		ERC721MintableTransactor: ERC721MintableTransactor{contract: contract},
		ERC721MintableFilterer:   ERC721MintableFilterer{contract: contract},
	}, nil
}

// NewERC721Mintable creates a new instance of ERC721Mintable, bound to a specific deployed contract.
func NewERC721Mintable(address common.Address, backend bind.ContractBackend) (*ERC721Mintable, error) {
	contract, err := bindERC721Mintable(address, backend, backend, backend)
	if err != nil {
		return nil, err
	}
	return &ERC721Mintable{
		ERC721MintableCaller:     ERC721MintableCaller{contract: contract},
		ERC721MintableTransactor: ERC721MintableTransactor{contract: contract},
		ERC721MintableFilterer:   ERC721MintableFilterer{contract: contract},
	}, nil
}

// bindERC721Mintable binds a generic wrapper to an already deployed contract.
func bindERC721Mintable(address common.Address, caller bind.ContractCaller, transactor bind.ContractTransactor, filterer bind.ContractFilterer) (*bind.BoundContract, error) {
	parsed, err := abi.JSON(strings.NewReader(ERC721MintableMetaData.ABI))
	if err != nil {
		return nil, err
	}
	return bind.NewBoundContract(address, parsed, caller, transactor, filterer), nil
}

func (_ERC721Mintable *ERC721MintableCaller) callString(opts *bind.CallOpts, method string, params ...interface{}) (string, error) {
	var out []interface{}
	err := _ERC721Mintable.contract.Call(opts, &out, method, params...)
	if err != nil {
		return *new(string), err
	}

	return *abi.ConvertType(out[0], new(string)).(*string), nil
}

func (_ERC721Mintable *ERC721MintableCaller) callUint256(opts *bind.CallOpts, method string, params ...interface{}) (*big.Int, error) {
	var out []interface{}
	err := _ERC721Mintable.contract.Call(opts, &out, method, params...)
	if err != nil {
		return *new(*big.Int), err
	}

	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (_ERC721Mintable *ERC721MintableCaller) callAddress(opts *bind.CallOpts, method string, params ...interface{}) (common.Address, error) {
	var out []interface{}
	err := _ERC721Mintable.contract.Call(opts, &out, method, params...)
	if err != nil {
		return *new(common.Address), err
	}

	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

// ContractURI is a free data retrieval call binding the contract method contractURI().
func (_ERC721Mintable *ERC721MintableCaller) ContractURI(opts *bind.CallOpts) (string, error) {
	return _ERC721Mintable.callString(opts, "contractURI")
}

// TokenURI is a free data retrieval call binding the contract method tokenURI(uint256).
func (_ERC721Mintable *ERC721MintableCaller) TokenURI(opts *bind.CallOpts, tokenId *big.Int) (string, error) {
	return _ERC721Mintable.callString(opts, "tokenURI", tokenId)
}

// Name is a free data retrieval call binding the contract method name().
func (_ERC721Mintable *ERC721MintableCaller) Name(opts *bind.CallOpts) (string, error) {
	return _ERC721Mintable.callString(opts, "name")
}

// Symbol is a free data retrieval call binding the contract method symbol().
func (_ERC721Mintable *ERC721MintableCaller) Symbol(opts *bind.CallOpts) (string, error) {
	return _ERC721Mintable.callString(opts, "symbol")
}

// Owner is a free data retrieval call binding the contract method owner().
func (_ERC721Mintable *ERC721MintableCaller) Owner(opts *bind.CallOpts) (common.Address, error) {
	return _ERC721Mintable.callAddress(opts, "owner")
}

// OwnerOf is a free data retrieval call binding the contract method ownerOf(uint256).
func (_ERC721Mintable *ERC721MintableCaller) OwnerOf(opts *bind.CallOpts, tokenId *big.Int) (common.Address, error) {
	return _ERC721Mintable.callAddress(opts, "ownerOf", tokenId)
}

// BalanceOf is a free data retrieval call binding the contract method balanceOf(address).
func (_ERC721Mintable *ERC721MintableCaller) BalanceOf(opts *bind.CallOpts, owner common.Address) (*big.Int, error) {
	return _ERC721Mintable.callUint256(opts, "balanceOf", owner)
}

// TotalSupply is a free data retrieval call binding the contract method totalSupply().
func (_ERC721Mintable *ERC721MintableCaller) TotalSupply(opts *bind.CallOpts) (*big.Int, error) {
	return _ERC721Mintable.callUint256(opts, "totalSupply")
}

// MintWithTokenURI is a paid mutator transaction binding the contract method mintWithTokenURI(address,string).
func (_ERC721Mintable *ERC721MintableTransactor) MintWithTokenURI(opts *bind.TransactOpts, to common.Address, tokenURI string) (*types.Transaction, error) {
	return _ERC721Mintable.contract.Transact(opts, "mintWithTokenURI", to, tokenURI)
}

// SetContractURI is a paid mutator transaction binding the contract method setContractURI(string).
func (_ERC721Mintable *ERC721MintableTransactor) SetContractURI(opts *bind.TransactOpts, contractURI string) (*types.Transaction, error) {
	return _ERC721Mintable.contract.Transact(opts, "setContractURI", contractURI)
}

// ParseTransfer is a log parse operation binding the contract event Transfer.
func (_ERC721Mintable *ERC721MintableFilterer) ParseTransfer(log types.Log) (*ERC721MintableTransfer, error) {
	event := new(ERC721MintableTransfer)
	if err := _ERC721Mintable.contract.UnpackLog(event, "Transfer", log); err != nil {
		return nil, err
	}
	event.Raw = log
	return event, nil
}
