package donation

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// NativeToken selects the chain's base currency instead of an ERC-20 token.
const NativeToken = "NATIVE"

// Intent is the ephemeral user input for one donation attempt. It lives only
// for the duration of a dialog session and is discarded on submit or cancel.
type Intent struct {
	ChainID     uint64 `json:"chain_id"`
	TokenSymbol string `json:"token_symbol"`
	Amount      string `json:"amount"`
	Recipient   string `json:"recipient"`
}

// Validate checks the intent against the sender before anything touches the
// network. Self-donations are rejected: the web client hides the donate
// button on the author's own posts, and this is the server-side equivalent.
func (i Intent) Validate(sender common.Address) error {
	amount, err := decimal.NewFromString(strings.TrimSpace(i.Amount))
	if err != nil || !amount.IsPositive() {
		return &FlowError{Kind: KindValidation, Message: "amount must be a positive decimal"}
	}
	if strings.TrimSpace(i.Recipient) == "" {
		return &FlowError{Kind: KindValidation, Message: "recipient address is required"}
	}
	if !common.IsHexAddress(i.Recipient) {
		return &FlowError{Kind: KindValidation, Message: "recipient is not a valid address"}
	}
	if strings.EqualFold(i.Recipient, sender.Hex()) {
		return &FlowError{Kind: KindValidation, Message: "cannot donate to your own address"}
	}
	if i.TokenSymbol == "" {
		return &FlowError{Kind: KindValidation, Message: "token selection is required"}
	}
	return nil
}

// amountDecimal parses the amount. Callers must have validated the intent.
func (i Intent) amountDecimal() decimal.Decimal {
	amount, _ := decimal.NewFromString(strings.TrimSpace(i.Amount))
	return amount
}

// RecipientAddress returns the checksummed recipient address.
func (i Intent) RecipientAddress() common.Address {
	return common.HexToAddress(i.Recipient)
}
