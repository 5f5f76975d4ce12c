// Package ethledger talks to the deployed EducationGrades contract over
// JSON-RPC. Reads are plain eth_call; writes are signed by the active wallet
// account and block until the transaction is mined, so a returned nil error
// means the ledger confirmed the state change.
package ethledger

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"

	"github.com/talunzi/gradechain/core"
	"github.com/talunzi/gradechain/core/grade"
	"github.com/talunzi/gradechain/core/session"
	"github.com/talunzi/gradechain/core/user"
	"github.com/talunzi/gradechain/ledger"
	"github.com/talunzi/gradechain/wallet"
)

type Ledger struct {
	client   *ethclient.Client
	contract *educationGrades
	wallet   wallet.Wallet
	chainID  *big.Int
	timeout  time.Duration
	logger   core.Logger
}

var (
	_ session.Ledger = (*Ledger)(nil)
	_ grade.Ledger   = (*Ledger)(nil)
	_ user.Ledger    = (*Ledger)(nil)
)

// Dial connects to the RPC endpoint and binds the contract. The contract
// address comes from the config, or from the hardhat deploy artifact when the
// config leaves it empty.
func Dial(ctx context.Context, conf core.ChainConfig, w wallet.Wallet, logger core.Logger) (*Ledger, error) {
	address := conf.ContractAddress
	if address == "" {
		loaded, err := LoadContractAddress(conf.ArtifactPath)
		if err != nil {
			return nil, err
		}
		address = loaded
	}
	if !common.IsHexAddress(address) {
		return nil, errors.Errorf("invalid contract address %q", address)
	}

	client, err := ethclient.DialContext(ctx, conf.RPCURL)
	if err != nil {
		return nil, errors.Wrapf(err, "dialing %s", conf.RPCURL)
	}
	contract, err := newEducationGrades(common.HexToAddress(address), client)
	if err != nil {
		client.Close()
		return nil, errors.Wrap(err, "binding contract")
	}

	logger.Info(fmt.Sprintf("connected to ledger: rpc=%s contract=%s chain_id=%d",
		conf.RPCURL, address, conf.ChainID))
	return &Ledger{
		client:   client,
		contract: contract,
		wallet:   w,
		chainID:  big.NewInt(conf.ChainID),
		timeout:  conf.ConfirmationTimeout,
		logger:   logger,
	}, nil
}

func (l *Ledger) Close() { l.client.Close() }

// session.Ledger

func (l *Ledger) GetUserRole(ctx context.Context, account string) (session.Role, error) {
	raw, err := l.contract.getUserRole(l.callOpts(ctx), common.HexToAddress(account))
	if err != nil {
		// the contract reverts role lookups for accounts it has never seen;
		// that is an unknown role, not a failure
		if isRevert(err) {
			return session.RoleUnknown, nil
		}
		return session.RoleUnknown, errors.Wrap(err, "reading role")
	}
	return session.ParseRole(raw), nil
}

func (l *Ledger) GetUserInfo(ctx context.Context, account string) (session.Profile, error) {
	raw, err := l.contract.getUserInfo(l.callOpts(ctx), common.HexToAddress(account))
	if err != nil {
		if isRevert(err) {
			return session.Profile{}, nil
		}
		return session.Profile{}, errors.Wrap(err, "reading profile")
	}
	return toProfile(raw), nil
}

// user.Ledger

func (l *Ledger) RegisterUser(ctx context.Context, reg user.Registration) error {
	return l.submit(ctx, "registerUser", reg.Name, reg.StudentID, reg.Email, reg.ContactNumber)
}

func (l *Ledger) AssignRole(ctx context.Context, account string, role session.Role) error {
	return l.submit(ctx, "assignRole", common.HexToAddress(account), uint8(role))
}

func (l *Ledger) RemoveUser(ctx context.Context, account string) error {
	return l.submit(ctx, "removeUser", common.HexToAddress(account))
}

func (l *Ledger) AllUsers(ctx context.Context) ([]string, error) {
	raw, err := l.contract.getAllUsers(l.callOpts(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "listing users")
	}
	out := make([]string, 0, len(raw))
	for _, addr := range raw {
		out = append(out, normalize(addr))
	}
	return out, nil
}

// grade.Ledger

func (l *Ledger) UploadGrade(ctx context.Context, g grade.Grade) (grade.Grade, error) {
	err := l.submit(ctx, "uploadGrade",
		g.ID, g.StudentID, common.HexToAddress(g.StudentAccount), g.Course, uint8(g.Score), g.Remark)
	if err != nil {
		return grade.Grade{}, err
	}
	return l.GetGrade(ctx, g.ID)
}

func (l *Ledger) DecideGrade(ctx context.Context, id string, decision grade.Status) error {
	return l.submit(ctx, "decideGrade", id, string(decision))
}

func (l *Ledger) SetGradeActive(ctx context.Context, id string, active bool) error {
	return l.submit(ctx, "setGradeActive", id, active)
}

func (l *Ledger) GetGrade(ctx context.Context, id string) (grade.Grade, error) {
	raw, err := l.contract.getGrade(l.callOpts(ctx), id)
	if err != nil {
		if isRevert(err) {
			return grade.Grade{}, ledger.ErrNotFound
		}
		return grade.Grade{}, errors.Wrap(err, "reading grade")
	}
	if raw.GradeId == "" {
		return grade.Grade{}, ledger.ErrNotFound
	}
	return toGrade(raw), nil
}

func (l *Ledger) GradesByStudentID(ctx context.Context, studentID string) ([]grade.Grade, error) {
	return l.queryGrades(ctx, "getGradesByStudentId", studentID)
}

func (l *Ledger) GradesByUsername(ctx context.Context, username string) ([]grade.Grade, error) {
	return l.queryGrades(ctx, "getGradesByUsername", username)
}

func (l *Ledger) GradesByAddress(ctx context.Context, account string) ([]grade.Grade, error) {
	return l.queryGrades(ctx, "getGradesByAddress", common.HexToAddress(account))
}

func (l *Ledger) AllGrades(ctx context.Context) ([]grade.Grade, error) {
	return l.queryGrades(ctx, "getAllGrades")
}

func (l *Ledger) LowScoreGrades(ctx context.Context) ([]grade.Grade, error) {
	return l.queryGrades(ctx, "getLowScoreGrades")
}

func (l *Ledger) PendingGradesByTeacher(ctx context.Context, teacher string) ([]grade.Grade, error) {
	return l.queryGrades(ctx, "getPendingGradesByTeacher", common.HexToAddress(teacher))
}

func (l *Ledger) queryGrades(ctx context.Context, method string, args ...interface{}) ([]grade.Grade, error) {
	raw, err := l.contract.queryGrades(l.callOpts(ctx), method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "calling %s", method)
	}
	out := make([]grade.Grade, 0, len(raw))
	for _, r := range raw {
		out = append(out, toGrade(r))
	}
	return out, nil
}

// submit signs a state-changing call with the wallet's active account, sends
// it and waits for the mined receipt. The wallet, not the context caller mark,
// decides who signs; ledger.WithCaller is an in-memory concern.
func (l *Ledger) submit(ctx context.Context, method string, args ...interface{}) error {
	opts, err := l.wallet.TransactOpts(ctx, l.chainID)
	if err != nil {
		return err
	}
	tx, err := l.contract.transact(opts, method, args...)
	if err != nil {
		return mapWriteError(err, method)
	}

	waitCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	receipt, err := bind.WaitMined(waitCtx, l.client, tx)
	if err != nil {
		return errors.Wrapf(err, "awaiting confirmation of %s (tx %s)", method, tx.Hash())
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		l.logger.Warn(fmt.Sprintf("%s reverted (tx %s)", method, tx.Hash().Hex()))
		return ledger.ErrReverted
	}
	l.logger.Debug(fmt.Sprintf("%s confirmed (tx %s, block %s)", method, tx.Hash().Hex(), receipt.BlockNumber))
	return nil
}

// mapWriteError folds node/signer failures into the gateway's taxonomy.
func mapWriteError(err error, method string) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "execution reverted"):
		if reason := revertReason(msg); reason != "" {
			if strings.Contains(reason, "not authorized") || strings.Contains(reason, "only ") {
				return errors.Wrap(ledger.ErrUnauthorized, reason)
			}
			return ledger.NewRevertError(reason)
		}
		return ledger.ErrReverted
	case strings.Contains(msg, "authentication needed"),
		strings.Contains(msg, "could not decrypt"),
		strings.Contains(msg, "locked"):
		return errors.Wrap(ledger.ErrRejected, err.Error())
	default:
		return errors.Wrapf(err, "submitting %s", method)
	}
}

func isRevert(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "execution reverted")
}

func revertReason(msg string) string {
	const marker = "execution reverted"
	idx := strings.Index(msg, marker)
	reason := strings.TrimPrefix(msg[idx+len(marker):], ":")
	return strings.TrimSpace(reason)
}

func (l *Ledger) callOpts(ctx context.Context) *bind.CallOpts {
	return &bind.CallOpts{Context: ctx}
}

func toProfile(r rawUser) session.Profile {
	return session.Profile{
		IsRegistered:  r.IsRegistered,
		Name:          r.Username,
		StudentID:     r.StudentId,
		Email:         r.Email,
		ContactNumber: r.ContactNumber,
	}
}

func toGrade(r rawGrade) grade.Grade {
	g := grade.Grade{
		ID:        r.GradeId,
		StudentID: r.StudentId,
		Course:    r.Course,
		Score:     int(r.Score),
		Status:    grade.Status(r.Status),
		Active:    r.Active,
		Remark:    r.Remark,
		Teacher:   normalize(r.Teacher),
	}
	if r.Student != (common.Address{}) {
		g.StudentAccount = normalize(r.Student)
	}
	if r.Timestamp != nil && r.Timestamp.Sign() > 0 {
		g.Timestamp = time.Unix(r.Timestamp.Int64(), 0).UTC()
	}
	return g
}

func normalize(addr common.Address) string {
	return strings.ToLower(addr.Hex())
}
