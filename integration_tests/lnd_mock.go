package integration_tests

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	btcec "github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/getAlby/lnurlhub.go/lnd"
	"github.com/lightningnetwork/lnd/lnrpc"
	"github.com/lightningnetwork/lnd/lnwire"
	"github.com/lightningnetwork/lnd/zpay32"
	"google.golang.org/grpc"
)

type MockLND struct {
	Sub             *MockSubscribeInvoices
	privKey         *btcec.PrivateKey
	pubKey          *btcec.PublicKey
	addIndexCounter uint64
}

func NewMockLND(privkey string, invoiceChan chan (*lnrpc.Invoice)) (*MockLND, error) {
	privKeyBytes, err := hex.DecodeString(privkey)
	if err != nil {
		return nil, err
	}
	privKey, pubKey := btcec.PrivKeyFromBytes(privKeyBytes)
	return &MockLND{
		Sub: &MockSubscribeInvoices{
			invoiceChan: invoiceChan,
		},
		privKey:         privKey,
		pubKey:          pubKey,
		addIndexCounter: 0,
	}, nil
}

func newDefaultMockLND() *MockLND {
	mlnd, err := NewMockLND(mockLNDPrivkey, make(chan *lnrpc.Invoice))
	if err != nil {
		panic(err)
	}
	return mlnd
}

func (mlnd *MockLND) signMsg(msg []byte) ([]byte, error) {
	hash := sha256.Sum256(msg)
	return ecdsa.SignCompact(mlnd.privKey, hash[:], true)
}

type MockSubscribeInvoices struct {
	invoiceChan chan (*lnrpc.Invoice)
}

func (mockSub *MockSubscribeInvoices) Recv() (*lnrpc.Invoice, error) {
	inv := <-mockSub.invoiceChan
	return inv, nil
}

func (mlnd *MockLND) AddInvoice(ctx context.Context, req *lnrpc.Invoice, options ...grpc.CallOption) (*lnrpc.AddInvoiceResponse, error) {
	pHash := sha256.Sum256(req.RPreimage)
	msat := lnwire.MilliSatoshi(req.ValueMsat)
	if msat == 0 {
		msat = lnwire.MilliSatoshi(1000 * req.Value)
	}
	invoice := &zpay32.Invoice{
		Net:         &chaincfg.RegressionNetParams,
		MilliSat:    &msat,
		Timestamp:   time.Now(),
		PaymentHash: &[32]byte{},
		PaymentAddr: &[32]byte{},
		Features: &lnwire.FeatureVector{
			RawFeatureVector: &lnwire.RawFeatureVector{},
		},
		FallbackAddr: nil,
	}
	zpay32.Expiry(time.Duration(req.Expiry) * time.Second)(invoice)
	copy(invoice.PaymentHash[:], pHash[:])
	if len(req.DescriptionHash) != 0 {
		invoice.DescriptionHash = &[32]byte{}
		copy(invoice.DescriptionHash[:], req.DescriptionHash)
	}
	if req.Memo != "" {
		invoice.Description = &req.Memo
	}
	pr, err := invoice.Encode(zpay32.MessageSigner{
		SignCompact: mlnd.signMsg,
	})
	if err != nil {
		return nil, err
	}
	mlnd.addIndexCounter += 1
	return &lnrpc.AddInvoiceResponse{
		RHash:          invoice.PaymentHash[:],
		PaymentRequest: pr,
		AddIndex:       mlnd.addIndexCounter,
	}, nil
}

func (mlnd *MockLND) LookupInvoice(ctx context.Context, req *lnrpc.PaymentHash, options ...grpc.CallOption) (*lnrpc.Invoice, error) {
	return &lnrpc.Invoice{
		RHash: req.RHash,
	}, nil
}

func (mlnd *MockLND) SubscribeInvoices(ctx context.Context, req *lnrpc.InvoiceSubscription, options ...grpc.CallOption) (lnd.SubscribeInvoicesWrapper, error) {
	return mlnd.Sub, nil
}

func (mlnd *MockLND) GetInfo(ctx context.Context, req *lnrpc.GetInfoRequest, options ...grpc.CallOption) (*lnrpc.GetInfoResponse, error) {
	return &lnrpc.GetInfoResponse{
		IdentityPubkey: hex.EncodeToString(mlnd.pubKey.SerializeCompressed()),
		Alias:          "mock-lnd",
	}, nil
}

func (mlnd *MockLND) GetMainPubkey() string {
	return hex.EncodeToString(mlnd.pubKey.SerializeCompressed())
}

// overstatingLND encodes every payment request for more than was asked,
// exercising the amount cross-check on issued invoices.
type overstatingLND struct {
	*MockLND
}

func (mlnd *overstatingLND) AddInvoice(ctx context.Context, req *lnrpc.Invoice, options ...grpc.CallOption) (*lnrpc.AddInvoiceResponse, error) {
	req.ValueMsat = req.ValueMsat + 1000
	return mlnd.MockLND.AddInvoice(ctx, req, options...)
}

// settleInvoice pushes a settlement update into the subscription stream the
// way lnd would after the payer pays.
func (mlnd *MockLND) settleInvoice(rHash []byte, preimage []byte, amtPaidMsat int64) {
	mlnd.Sub.invoiceChan <- &lnrpc.Invoice{
		RHash:       rHash,
		RPreimage:   preimage,
		Settled:     true,
		State:       lnrpc.Invoice_SETTLED,
		SettleDate:  time.Now().Unix(),
		AmtPaidMsat: amtPaidMsat,
	}
}
