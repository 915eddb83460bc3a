// Package partner holds the laundry partner ("mitra") account as far as
// settlement needs it: identity, business name and the verified bank account
// payouts are transferred to.
package partner

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"laundry/internal/core/domain/model/kernel"
	"laundry/internal/pkg/errs"
	"laundry/internal/pkg/guard"
)

var (
	ErrPartnerIsNotConstructed     = errors.New("Partner must be created via NewPartner or RestorePartner constructor")
	ErrBankAccountIsNotConstructed = errs.NewValueIsRequiredError("bank account must be created via NewBankAccount constructor")

	// ErrBankAccountNotVerified is returned when a payout is requested for a
	// partner whose bank details have not been verified.
	ErrBankAccountNotVerified = errors.New("partner bank account is not verified")
)

// BankAccount is a value object. Payouts copy it, so later edits to the
// partner's account never alter an existing payout.
type BankAccount struct { //nolint:recvcheck //using for validation
	bankName      string
	accountNumber string
	accountHolder string
	guard         guard.ConstructorGuard
}

// NewBankAccount validates that every field is present and the account number is numeric.
func NewBankAccount(bankName, accountNumber, accountHolder string) (BankAccount, error) {
	bankName = strings.TrimSpace(bankName)
	accountNumber = strings.TrimSpace(accountNumber)
	accountHolder = strings.TrimSpace(accountHolder)

	var errList []error
	if bankName == "" {
		errList = append(errList, errs.NewValueIsRequiredError("bankName"))
	}
	if accountNumber == "" {
		errList = append(errList, errs.NewValueIsRequiredError("accountNumber"))
	} else if strings.IndexFunc(accountNumber, func(r rune) bool { return !unicode.IsDigit(r) }) >= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"accountNumber", fmt.Errorf("%q must contain digits only", accountNumber)))
	}
	if accountHolder == "" {
		errList = append(errList, errs.NewValueIsRequiredError("accountHolder"))
	}
	if err := errors.Join(errList...); err != nil {
		return BankAccount{}, err
	}

	return BankAccount{
		bankName:      bankName,
		accountNumber: accountNumber,
		accountHolder: accountHolder,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (b BankAccount) BankName() string { return b.bankName }
func (b BankAccount) AccountNumber() string { return b.accountNumber }
func (b BankAccount) AccountHolder() string { return b.accountHolder }

func (b BankAccount) Validate() error {
	return b.guard.Validate(ErrBankAccountIsNotConstructed)
}

// Partner is a laundry business registered on the marketplace.
type Partner struct {
	id           kernel.UUID
	businessName string
	bankAccount  *BankAccount

	isConstructed bool
}

// NewPartner creates a partner without verified bank details.
func NewPartner(id kernel.UUID, businessName string) (*Partner, error) {
	p := &Partner{isConstructed: true}

	var nameErr error
	businessName = strings.TrimSpace(businessName)
	if businessName == "" {
		nameErr = errs.NewValueIsRequiredError("businessName")
	}
	if err := errors.Join(id.Validate(), nameErr); err != nil {
		return nil, err
	}

	p.id = id
	p.businessName = businessName
	return p, nil
}

// RestorePartner rebuilds a partner from storage. bankAccount is nil until verified.
func RestorePartner(id kernel.UUID, businessName string, bankAccount *BankAccount) (*Partner, error) {
	p, err := NewPartner(id, businessName)
	if err != nil {
		return nil, err
	}
	if bankAccount != nil {
		if err = p.VerifyBankAccount(*bankAccount); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Partner) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPartnerIsNotConstructed
	}
	return nil
}

func (p *Partner) ID() kernel.UUID {
	return p.id
}

func (p *Partner) BusinessName() string {
	return p.businessName
}

// VerifyBankAccount stores account as the verified payout destination.
func (p *Partner) VerifyBankAccount(account BankAccount) error {
	if err := account.Validate(); err != nil {
		return err
	}
	p.bankAccount = &account
	return nil
}

// VerifiedBankAccount returns the verified account or ErrBankAccountNotVerified.
func (p *Partner) VerifiedBankAccount() (BankAccount, error) {
	if p.bankAccount == nil {
		return BankAccount{}, fmt.Errorf("%w: partner %s", ErrBankAccountNotVerified, p.id)
	}
	return *p.bankAccount, nil
}
