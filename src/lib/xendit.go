package lib

import (
	"context"
	"crypto/hmac"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	xendit "github.com/xendit/xendit-go/v6"
	"github.com/xendit/xendit-go/v6/invoice"
	"github.com/xendit/xendit-go/v6/payment_request"
)

type VirtualAccountInput struct {
	ExternalID   string
	BankCode     string
	CustomerName string
	Amount       float64
	ExpiresAt    time.Time
}

type VirtualAccountOutput struct {
	ReferenceID string
	// AccountNumber carries a hosted checkout URL when the provider fell
	// back to an invoice instead of issuing a VA number.
	AccountNumber string
	BankCode      string
}

type EWalletChargeInput struct {
	ReferenceID string
	ChannelCode string
	Amount      float64
	RedirectURL string
}

type EWalletChargeOutput struct {
	ReferenceID string
	CheckoutURL string
}

type QRCodeInput struct {
	ExternalID string
	Amount     float64
}

type QRCodeOutput struct {
	ReferenceID string
	QRString    string
}

type InvoiceInput struct {
	ExternalID    string
	Amount        float64
	PayerEmail    string
	Description   string
	DurationHours int
}

type InvoiceOutput struct {
	ReferenceID string
	InvoiceURL  string
}

type PaymentProvider interface {
	Name() string
	CreateVirtualAccount(ctx context.Context, in *VirtualAccountInput) (*VirtualAccountOutput, error)
	CreateEWalletCharge(ctx context.Context, in *EWalletChargeInput) (*EWalletChargeOutput, error)
	CreateQRCode(ctx context.Context, in *QRCodeInput) (*QRCodeOutput, error)
	CreateInvoice(ctx context.Context, in *InvoiceInput) (*InvoiceOutput, error)
}

var paymentProvider PaymentProvider

func GetPaymentProvider() PaymentProvider {
	if paymentProvider != nil {
		return paymentProvider
	}
	secretKey := os.Getenv("XENDIT_SECRET_KEY")
	if secretKey == "" {
		log.Println("[payments] XENDIT_SECRET_KEY not set, using dev provider")
		paymentProvider = &DevProvider{}
		return paymentProvider
	}
	paymentProvider = &XenditProvider{client: xendit.NewClient(secretKey)}
	return paymentProvider
}

// NewPaymentProvider Replace provider instance with custom implementation
func NewPaymentProvider(p PaymentProvider) PaymentProvider {
	paymentProvider = p
	return paymentProvider
}

// VerifyCallbackToken checks the x-callback-token webhook header. Returns
// true when no token is configured so local setups keep working.
func VerifyCallbackToken(header string) bool {
	token := os.Getenv("XENDIT_CALLBACK_TOKEN")
	if token == "" {
		log.Println("[payments] XENDIT_CALLBACK_TOKEN not set, skipping webhook verification")
		return true
	}
	return hmac.Equal([]byte(header), []byte(token))
}

type XenditProvider struct {
	client *xendit.APIClient
}

func (p *XenditProvider) Name() string {
	return "xendit"
}

func (p *XenditProvider) CreateVirtualAccount(ctx context.Context, in *VirtualAccountInput) (*VirtualAccountOutput, error) {
	props := payment_request.NewVirtualAccountChannelProperties(in.CustomerName)
	props.SetExpiresAt(in.ExpiresAt.UTC())
	va := payment_request.NewVirtualAccountParameters(payment_request.VirtualAccountChannelCode(in.BankCode), *props)
	method := payment_request.NewPaymentMethodParameters(
		payment_request.PAYMENTMETHODTYPE_VIRTUAL_ACCOUNT,
		payment_request.PAYMENTMETHODREUSABILITY_ONE_TIME_USE,
	)
	method.SetVirtualAccount(*va)
	params := payment_request.NewPaymentRequestParameters(payment_request.PAYMENTREQUESTCURRENCY_IDR)
	params.SetReferenceId(in.ExternalID)
	params.SetAmount(in.Amount)
	params.SetPaymentMethod(*method)

	resp, _, err := p.client.PaymentRequestApi.
		CreatePaymentRequest(ctx).
		PaymentRequestParameters(*params).
		Execute()
	if err != nil {
		log.Printf("[payments] VA creation failed, falling back to invoice: %s\n", err.Error())
		inv, ierr := p.CreateInvoice(ctx, &InvoiceInput{
			ExternalID:    in.ExternalID,
			Amount:        in.Amount,
			Description:   "Payment for " + in.ExternalID,
			DurationHours: int(time.Until(in.ExpiresAt).Hours()),
		})
		if ierr != nil {
			return nil, fmt.Errorf("create virtual account: %s", err.Error())
		}
		return &VirtualAccountOutput{
			ReferenceID:   inv.ReferenceID,
			AccountNumber: inv.InvoiceURL,
			BankCode:      in.BankCode,
		}, nil
	}
	pm := resp.GetPaymentMethod()
	respVA := pm.GetVirtualAccount()
	vaProps := respVA.GetChannelProperties()
	return &VirtualAccountOutput{
		ReferenceID:   resp.GetId(),
		AccountNumber: vaProps.GetVirtualAccountNumber(),
		BankCode:      in.BankCode,
	}, nil
}

func (p *XenditProvider) CreateEWalletCharge(ctx context.Context, in *EWalletChargeInput) (*EWalletChargeOutput, error) {
	props := payment_request.NewEWalletChannelProperties()
	props.SetSuccessReturnUrl(in.RedirectURL)
	ewallet := payment_request.NewEWalletParameters()
	ewallet.SetChannelCode(payment_request.EWalletChannelCode(in.ChannelCode))
	ewallet.SetChannelProperties(*props)
	method := payment_request.NewPaymentMethodParameters(
		payment_request.PAYMENTMETHODTYPE_EWALLET,
		payment_request.PAYMENTMETHODREUSABILITY_ONE_TIME_USE,
	)
	method.SetEwallet(*ewallet)
	params := payment_request.NewPaymentRequestParameters(payment_request.PAYMENTREQUESTCURRENCY_IDR)
	params.SetReferenceId(in.ReferenceID)
	params.SetAmount(in.Amount)
	params.SetPaymentMethod(*method)

	resp, _, err := p.client.PaymentRequestApi.
		CreatePaymentRequest(ctx).
		PaymentRequestParameters(*params).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("create ewallet charge: %s", err.Error())
	}
	checkoutURL := ""
	for _, action := range resp.GetActions() {
		if checkoutURL == "" || action.GetUrlType() == "WEB" {
			checkoutURL = action.GetUrl()
		}
		if action.GetUrlType() == "WEB" {
			break
		}
	}
	return &EWalletChargeOutput{ReferenceID: resp.GetId(), CheckoutURL: checkoutURL}, nil
}

func (p *XenditProvider) CreateQRCode(ctx context.Context, in *QRCodeInput) (*QRCodeOutput, error) {
	method := payment_request.NewPaymentMethodParameters(
		payment_request.PAYMENTMETHODTYPE_QR_CODE,
		payment_request.PAYMENTMETHODREUSABILITY_ONE_TIME_USE,
	)
	method.SetQrCode(*payment_request.NewQRCodeParameters())
	params := payment_request.NewPaymentRequestParameters(payment_request.PAYMENTREQUESTCURRENCY_IDR)
	params.SetReferenceId(in.ExternalID)
	params.SetAmount(in.Amount)
	params.SetPaymentMethod(*method)

	resp, _, err := p.client.PaymentRequestApi.
		CreatePaymentRequest(ctx).
		PaymentRequestParameters(*params).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("create qr code: %s", err.Error())
	}
	pm := resp.GetPaymentMethod()
	qr := pm.GetQrCode()
	qrProps := qr.GetChannelProperties()
	return &QRCodeOutput{
		ReferenceID: resp.GetId(),
		QRString:    qrProps.GetQrString(),
	}, nil
}

func (p *XenditProvider) CreateInvoice(ctx context.Context, in *InvoiceInput) (*InvoiceOutput, error) {
	duration := in.DurationHours
	if duration <= 0 {
		duration = 24
	}
	req := invoice.NewCreateInvoiceRequest(in.ExternalID, in.Amount)
	req.SetDescription(in.Description)
	req.SetInvoiceDuration(fmt.Sprintf("%d", duration*3600))
	if in.PayerEmail != "" {
		req.SetPayerEmail(in.PayerEmail)
	}

	resp, _, err := p.client.InvoiceApi.
		CreateInvoice(ctx).
		CreateInvoiceRequest(*req).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("create invoice: %s", err.Error())
	}
	return &InvoiceOutput{ReferenceID: resp.GetId(), InvoiceURL: resp.GetInvoiceUrl()}, nil
}

// DevProvider issues deterministic payment objects for local development.
type DevProvider struct{}

func (p *DevProvider) Name() string {
	return "dev"
}

func (p *DevProvider) CreateVirtualAccount(ctx context.Context, in *VirtualAccountInput) (*VirtualAccountOutput, error) {
	return &VirtualAccountOutput{
		ReferenceID:   "dev_va_" + uuid.NewString(),
		AccountNumber: fmt.Sprintf("8888%010d", time.Now().Unix()%10000000000),
		BankCode:      in.BankCode,
	}, nil
}

func (p *DevProvider) CreateEWalletCharge(ctx context.Context, in *EWalletChargeInput) (*EWalletChargeOutput, error) {
	return &EWalletChargeOutput{
		ReferenceID: "dev_ewc_" + uuid.NewString(),
		CheckoutURL: "https://checkout.dev.local/" + in.ReferenceID,
	}, nil
}

func (p *DevProvider) CreateQRCode(ctx context.Context, in *QRCodeInput) (*QRCodeOutput, error) {
	return &QRCodeOutput{
		ReferenceID: "dev_qr_" + uuid.NewString(),
		QRString:    fmt.Sprintf("00020101021226660014ID.DEV.WWW%s6304", in.ExternalID),
	}, nil
}

func (p *DevProvider) CreateInvoice(ctx context.Context, in *InvoiceInput) (*InvoiceOutput, error) {
	return &InvoiceOutput{
		ReferenceID: "dev_inv_" + uuid.NewString(),
		InvoiceURL:  "https://invoice.dev.local/" + in.ExternalID,
	}, nil
}
