package ethledger

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// educationGradesABI is the call surface of the deployed EducationGrades
// contract. The contract source is not part of this repository; only its ABI
// and deploy address are consumed at runtime.
const educationGradesABI = `[
  {"type":"function","name":"getUserRole","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"uint8"}]},
  {"type":"function","name":"getUserInfo","stateMutability":"view","inputs":[{"name":"account","type":"address"}],"outputs":[{"name":"","type":"tuple","components":[{"name":"isRegistered","type":"bool"},{"name":"username","type":"string"},{"name":"studentId","type":"string"},{"name":"email","type":"string"},{"name":"contactNumber","type":"string"}]}]},
  {"type":"function","name":"getAllUsers","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"address[]"}]},
  {"type":"function","name":"getGrade","stateMutability":"view","inputs":[{"name":"gradeId","type":"string"}],"outputs":[{"name":"","type":"tuple","components":[{"name":"gradeId","type":"string"},{"name":"studentId","type":"string"},{"name":"student","type":"address"},{"name":"course","type":"string"},{"name":"score","type":"uint8"},{"name":"status","type":"string"},{"name":"active","type":"bool"},{"name":"remark","type":"string"},{"name":"teacher","type":"address"},{"name":"timestamp","type":"uint256"}]}]},
  {"type":"function","name":"getGradesByStudentId","stateMutability":"view","inputs":[{"name":"studentId","type":"string"}],"outputs":[{"name":"","type":"tuple[]","components":[{"name":"gradeId","type":"string"},{"name":"studentId","type":"string"},{"name":"student","type":"address"},{"name":"course","type":"string"},{"name":"score","type":"uint8"},{"name":"status","type":"string"},{"name":"active","type":"bool"},{"name":"remark","type":"string"},{"name":"teacher","type":"address"},{"name":"timestamp","type":"uint256"}]}]},
  {"type":"function","name":"getGradesByUsername","stateMutability":"view","inputs":[{"name":"username","type":"string"}],"outputs":[{"name":"","type":"tuple[]","components":[{"name":"gradeId","type":"string"},{"name":"studentId","type":"string"},{"name":"student","type":"address"},{"name":"course","type":"string"},{"name":"score","type":"uint8"},{"name":"status","type":"string"},{"name":"active","type":"bool"},{"name":"remark","type":"string"},{"name":"teacher","type":"address"},{"name":"timestamp","type":"uint256"}]}]},
  {"type":"function","name":"getGradesByAddress","stateMutability":"view","inputs":[{"name":"student","type":"address"}],"outputs":[{"name":"","type":"tuple[]","components":[{"name":"gradeId","type":"string"},{"name":"studentId","type":"string"},{"name":"student","type":"address"},{"name":"course","type":"string"},{"name":"score","type":"uint8"},{"name":"status","type":"string"},{"name":"active","type":"bool"},{"name":"remark","type":"string"},{"name":"teacher","type":"address"},{"name":"timestamp","type":"uint256"}]}]},
  {"type":"function","name":"getAllGrades","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"tuple[]","components":[{"name":"gradeId","type":"string"},{"name":"studentId","type":"string"},{"name":"student","type":"address"},{"name":"course","type":"string"},{"name":"score","type":"uint8"},{"name":"status","type":"string"},{"name":"active","type":"bool"},{"name":"remark","type":"string"},{"name":"teacher","type":"address"},{"name":"timestamp","type":"uint256"}]}]},
  {"type":"function","name":"getLowScoreGrades","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"tuple[]","components":[{"name":"gradeId","type":"string"},{"name":"studentId","type":"string"},{"name":"student","type":"address"},{"name":"course","type":"string"},{"name":"score","type":"uint8"},{"name":"status","type":"string"},{"name":"active","type":"bool"},{"name":"remark","type":"string"},{"name":"teacher","type":"address"},{"name":"timestamp","type":"uint256"}]}]},
  {"type":"function","name":"getPendingGradesByTeacher","stateMutability":"view","inputs":[{"name":"teacher","type":"address"}],"outputs":[{"name":"","type":"tuple[]","components":[{"name":"gradeId","type":"string"},{"name":"studentId","type":"string"},{"name":"student","type":"address"},{"name":"course","type":"string"},{"name":"score","type":"uint8"},{"name":"status","type":"string"},{"name":"active","type":"bool"},{"name":"remark","type":"string"},{"name":"teacher","type":"address"},{"name":"timestamp","type":"uint256"}]}]},
  {"type":"function","name":"registerUser","stateMutability":"nonpayable","inputs":[{"name":"username","type":"string"},{"name":"studentId","type":"string"},{"name":"email","type":"string"},{"name":"contactNumber","type":"string"}],"outputs":[]},
  {"type":"function","name":"assignRole","stateMutability":"nonpayable","inputs":[{"name":"account","type":"address"},{"name":"role","type":"uint8"}],"outputs":[]},
  {"type":"function","name":"removeUser","stateMutability":"nonpayable","inputs":[{"name":"account","type":"address"}],"outputs":[]},
  {"type":"function","name":"uploadGrade","stateMutability":"nonpayable","inputs":[{"name":"gradeId","type":"string"},{"name":"studentId","type":"string"},{"name":"student","type":"address"},{"name":"course","type":"string"},{"name":"score","type":"uint8"},{"name":"remark","type":"string"}],"outputs":[]},
  {"type":"function","name":"decideGrade","stateMutability":"nonpayable","inputs":[{"name":"gradeId","type":"string"},{"name":"status","type":"string"}],"outputs":[]},
  {"type":"function","name":"setGradeActive","stateMutability":"nonpayable","inputs":[{"name":"gradeId","type":"string"},{"name":"active","type":"bool"}],"outputs":[]}
]`

type (
	// rawUser mirrors the contract's user tuple.
	rawUser struct {
		IsRegistered  bool
		Username      string
		StudentId     string
		Email         string
		ContactNumber string
	}

	// rawGrade mirrors the contract's grade tuple.
	rawGrade struct {
		GradeId   string
		StudentId string
		Student   common.Address
		Course    string
		Score     uint8
		Status    string
		Active    bool
		Remark    string
		Teacher   common.Address
		Timestamp *big.Int
	}

	// educationGrades is a thin wrapper around the deployed contract.
	educationGrades struct {
		abi      abi.ABI
		address  common.Address
		contract *bind.BoundContract
	}
)

func newEducationGrades(address common.Address, backend bind.ContractBackend) (*educationGrades, error) {
	parsed, err := abi.JSON(strings.NewReader(educationGradesABI))
	if err != nil {
		return nil, err
	}
	return &educationGrades{
		abi:      parsed,
		address:  address,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
	}, nil
}

// Read methods

func (c *educationGrades) getUserRole(opts *bind.CallOpts, account common.Address) (uint8, error) {
	var out []interface{}
	if err := c.contract.Call(opts, &out, "getUserRole", account); err != nil {
		return 0, err
	}
	return *abi.ConvertType(out[0], new(uint8)).(*uint8), nil
}

func (c *educationGrades) getUserInfo(opts *bind.CallOpts, account common.Address) (rawUser, error) {
	var out []interface{}
	if err := c.contract.Call(opts, &out, "getUserInfo", account); err != nil {
		return rawUser{}, err
	}
	return *abi.ConvertType(out[0], new(rawUser)).(*rawUser), nil
}

func (c *educationGrades) getAllUsers(opts *bind.CallOpts) ([]common.Address, error) {
	var out []interface{}
	if err := c.contract.Call(opts, &out, "getAllUsers"); err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new([]common.Address)).(*[]common.Address), nil
}

func (c *educationGrades) getGrade(opts *bind.CallOpts, gradeID string) (rawGrade, error) {
	var out []interface{}
	if err := c.contract.Call(opts, &out, "getGrade", gradeID); err != nil {
		return rawGrade{}, err
	}
	return *abi.ConvertType(out[0], new(rawGrade)).(*rawGrade), nil
}

func (c *educationGrades) queryGrades(opts *bind.CallOpts, method string, args ...interface{}) ([]rawGrade, error) {
	var out []interface{}
	if err := c.contract.Call(opts, &out, method, args...); err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new([]rawGrade)).(*[]rawGrade), nil
}

// Write methods

func (c *educationGrades) transact(opts *bind.TransactOpts, method string, args ...interface{}) (*types.Transaction, error) {
	return c.contract.Transact(opts, method, args...)
}
