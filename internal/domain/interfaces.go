package domain

// TokenLedger is the fungible-token collaborator. The platform account is
// the only caller allowed to mint and burn; sellers grant it an allowance
// before listing so escrow can be pulled via TransferFrom.
type TokenLedger interface {
	Mint(to string, amount int64) error
	Burn(from string, amount int64) error
	Transfer(from, to string, amount int64) error
	TransferFrom(spender, from, to string, amount int64) error
	Approve(owner, spender string, amount int64) error
	BalanceOf(account string) int64
}
