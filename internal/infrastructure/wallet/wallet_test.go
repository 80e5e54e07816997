package wallet

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
)

var testChainID = big.NewInt(31337)

func legacyTx() *types.Transaction {
	to := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	return types.NewTx(&types.LegacyTx{
		Nonce:    1,
		GasPrice: big.NewInt(1_000_000_000),
		Gas:      21000,
		To:       &to,
		Value:    big.NewInt(5),
	})
}

func assertSignedBy(t *testing.T, tx *types.Transaction, want common.Address) {
	t.Helper()
	sender, err := types.Sender(types.LatestSignerForChainID(testChainID), tx)
	if err != nil {
		t.Fatalf("recover sender: %v", err)
	}
	if sender != want {
		t.Fatalf("signed by %s, want %s", sender.Hex(), want.Hex())
	}
}

func TestKeyProviderSigns(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	address := crypto.PubkeyToAddress(key.PublicKey)
	provider, err := NewKeyProvider(hexutil.Encode(crypto.FromECDSA(key)))
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}

	accounts, err := provider.Accounts(context.Background())
	if err != nil || len(accounts) != 1 || accounts[0] != address.Hex() {
		t.Fatalf("unexpected accounts %v err=%v", accounts, err)
	}
	opts, err := provider.Transactor(context.Background(), address, testChainID)
	if err != nil {
		t.Fatalf("transactor: %v", err)
	}
	signed, err := opts.Signer(address, legacyTx())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	assertSignedBy(t, signed, address)

	if _, err := provider.Transactor(context.Background(), common.HexToAddress("0x01"), testChainID); err == nil {
		t.Fatalf("expected mismatch error")
	}
}

func TestKeyProviderRejectsGarbage(t *testing.T) {
	if _, err := NewKeyProvider("0xnothex"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestKeystoreProviderUnlocksOnRequest(t *testing.T) {
	dir := t.TempDir()
	ks := keystore.NewKeyStore(dir, keystore.LightScryptN, keystore.LightScryptP)
	account, err := ks.NewAccount("correct horse")
	if err != nil {
		t.Fatalf("new account: %v", err)
	}

	provider, err := NewKeystoreProvider(KeystoreConfig{Dir: dir, Account: account.Address.Hex(), Passphrase: "correct horse"})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	accounts, err := provider.Accounts(context.Background())
	if err != nil || len(accounts) != 0 {
		t.Fatalf("silent lookup must not expose a locked key: %v err=%v", accounts, err)
	}
	accounts, err = provider.RequestAccounts(context.Background())
	if err != nil || len(accounts) != 1 || accounts[0] != account.Address.Hex() {
		t.Fatalf("unexpected request result %v err=%v", accounts, err)
	}
	accounts, _ = provider.Accounts(context.Background())
	if len(accounts) != 1 {
		t.Fatalf("expected unlocked account to be visible")
	}

	opts, err := provider.Transactor(context.Background(), account.Address, testChainID)
	if err != nil {
		t.Fatalf("transactor: %v", err)
	}
	signed, err := opts.Signer(account.Address, legacyTx())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	assertSignedBy(t, signed, account.Address)
}

func TestKeystoreProviderWrongPassphrase(t *testing.T) {
	dir := t.TempDir()
	ks := keystore.NewKeyStore(dir, keystore.LightScryptN, keystore.LightScryptP)
	if _, err := ks.NewAccount("right"); err != nil {
		t.Fatalf("new account: %v", err)
	}
	provider, err := NewKeystoreProvider(KeystoreConfig{Dir: dir, Passphrase: "wrong"})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	if _, err := provider.RequestAccounts(context.Background()); err == nil {
		t.Fatalf("expected unlock failure")
	}
	if accounts, _ := provider.Accounts(context.Background()); len(accounts) != 0 {
		t.Fatalf("account must stay hidden after failed unlock")
	}
}

func TestKeystoreProviderEmptyDir(t *testing.T) {
	if _, err := NewKeystoreProvider(KeystoreConfig{Dir: t.TempDir()}); err == nil {
		t.Fatalf("expected error for empty keystore")
	}
}

type SignRequest struct {
	From     common.Address  `json:"from"`
	To       *common.Address `json:"to"`
	Gas      hexutil.Uint64  `json:"gas"`
	GasPrice *hexutil.Big    `json:"gasPrice"`
	Value    *hexutil.Big    `json:"value"`
	Nonce    hexutil.Uint64  `json:"nonce"`
	Data     hexutil.Bytes   `json:"data"`
	ChainID  *hexutil.Big    `json:"chainId"`
}

// WalletService emulates an injected wallet that only reveals accounts after
// an explicit request.
type WalletService struct {
	t         *testing.T
	address   common.Address
	sign      func(*types.Transaction) (*types.Transaction, error)
	requested bool
}

func (s *WalletService) Accounts() []common.Address {
	if !s.requested {
		return []common.Address{}
	}
	return []common.Address{s.address}
}

func (s *WalletService) RequestAccounts() []common.Address {
	s.requested = true
	return []common.Address{s.address}
}

func (s *WalletService) SignTransaction(req SignRequest) (hexutil.Bytes, error) {
	if req.ChainID == nil || req.ChainID.ToInt().Cmp(testChainID) != 0 {
		s.t.Errorf("unexpected chain id %v", req.ChainID)
	}
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    uint64(req.Nonce),
		GasPrice: req.GasPrice.ToInt(),
		Gas:      uint64(req.Gas),
		To:       req.To,
		Value:    req.Value.ToInt(),
		Data:     req.Data,
	})
	signed, err := s.sign(tx)
	if err != nil {
		return nil, err
	}
	return signed.MarshalBinary()
}

func TestRPCProvider(t *testing.T) {
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	address := crypto.PubkeyToAddress(key.PublicKey)
	service := &WalletService{
		t:       t,
		address: address,
		sign: func(tx *types.Transaction) (*types.Transaction, error) {
			return types.SignTx(tx, types.LatestSignerForChainID(testChainID), key)
		},
	}
	server := rpc.NewServer()
	if err := server.RegisterName("eth", service); err != nil {
		t.Fatalf("register: %v", err)
	}
	defer server.Stop()
	provider := NewRPCProvider(rpc.DialInProc(server))
	defer provider.Close()

	ctx := context.Background()
	accounts, err := provider.Accounts(ctx)
	if err != nil || len(accounts) != 0 {
		t.Fatalf("expected no silent accounts, got %v err=%v", accounts, err)
	}
	accounts, err = provider.RequestAccounts(ctx)
	if err != nil || len(accounts) != 1 || accounts[0] != address.Hex() {
		t.Fatalf("unexpected request result %v err=%v", accounts, err)
	}

	opts, err := provider.Transactor(ctx, address, testChainID)
	if err != nil {
		t.Fatalf("transactor: %v", err)
	}
	signed, err := opts.Signer(address, legacyTx())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	assertSignedBy(t, signed, address)
	if signed.Value().Cmp(big.NewInt(5)) != 0 {
		t.Fatalf("unexpected value %s", signed.Value())
	}

	other := common.HexToAddress("0x02")
	if _, err := opts.Signer(other, legacyTx()); err == nil {
		t.Fatalf("expected unauthorized signer error")
	}
}

func TestRPCProviderRejectsForeignSignature(t *testing.T) {
	key, _ := crypto.GenerateKey()
	foreign, _ := crypto.GenerateKey()
	address := crypto.PubkeyToAddress(key.PublicKey)
	service := &WalletService{
		t:       t,
		address: address,
		sign: func(tx *types.Transaction) (*types.Transaction, error) {
			return types.SignTx(tx, types.LatestSignerForChainID(testChainID), foreign)
		},
	}
	server := rpc.NewServer()
	if err := server.RegisterName("eth", service); err != nil {
		t.Fatalf("register: %v", err)
	}
	defer server.Stop()
	provider := NewRPCProvider(rpc.DialInProc(server))
	defer provider.Close()

	opts, err := provider.Transactor(context.Background(), address, testChainID)
	if err != nil {
		t.Fatalf("transactor: %v", err)
	}
	if _, err := opts.Signer(address, legacyTx()); err == nil {
		t.Fatalf("expected sender mismatch")
	}
}

func TestDecodeSignResult(t *testing.T) {
	raw, err := decodeSignResult([]byte(`"0x0102"`))
	if err != nil || len(raw) != 2 {
		t.Fatalf("bare result: %x err=%v", raw, err)
	}
	raw, err = decodeSignResult([]byte(`{"raw":"0x0a0b0c","tx":{}}`))
	if err != nil || len(raw) != 3 {
		t.Fatalf("envelope result: %x err=%v", raw, err)
	}
	if _, err := decodeSignResult([]byte(`{}`)); err == nil {
		t.Fatalf("expected error for empty envelope")
	}
}
