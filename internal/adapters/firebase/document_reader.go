package firebase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/SscSPs/wallet_ledger/internal/apperrors"
	"github.com/SscSPs/wallet_ledger/internal/core/domain"
	"github.com/SscSPs/wallet_ledger/internal/core/ports/clients"
	"github.com/shopspring/decimal"
	firestore "google.golang.org/api/firestore/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	usersCollection   = "users"
	transactionsField = "transactions"
	firestoreService  = "firestore"
)

// DocumentReader reads per-user documents through the Firestore REST API.
type DocumentReader struct {
	documents *firestore.ProjectsDatabasesDocumentsService
	projectID string
}

// NewDocumentReader creates a reader for the default database of projectID.
// Credentials and endpoint are taken from opts.
func NewDocumentReader(ctx context.Context, projectID string, opts ...option.ClientOption) (*DocumentReader, error) {
	if projectID == "" {
		return nil, apperrors.NewValidationError("firestore project id is required")
	}
	svc, err := firestore.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore service: %w", err)
	}
	return &DocumentReader{documents: svc.Projects.Databases.Documents, projectID: projectID}, nil
}

var _ clients.UserDocumentReader = (*DocumentReader)(nil)

func (r *DocumentReader) documentName(uid string) string {
	return fmt.Sprintf("projects/%s/databases/(default)/documents/%s/%s", r.projectID, usersCollection, uid)
}

// FetchUserDocument reads users/{uid} and decodes its transactions array.
func (r *DocumentReader) FetchUserDocument(ctx context.Context, uid string) (*clients.UserDocument, error) {
	doc, err := r.documents.Get(r.documentName(uid)).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("user document %s not found", uid))
		}
		return nil, apperrors.NewRemoteError(firestoreService, err)
	}

	raw, err := json.Marshal(doc.Fields)
	if err != nil {
		return nil, apperrors.NewMalformedResponseError(firestoreService, "unreadable document fields: "+err.Error())
	}
	var fields map[string]firestoreValue
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, apperrors.NewMalformedResponseError(firestoreService, "unreadable document fields: "+err.Error())
	}

	field, ok := fields[transactionsField]
	if !ok || field.ArrayValue == nil {
		return nil, apperrors.NewMalformedResponseError(firestoreService, "document has no transactions array")
	}

	txs := make([]domain.Transaction, 0, len(field.ArrayValue.Values))
	for i, v := range field.ArrayValue.Values {
		tx, err := decodeTransaction(v)
		if err != nil {
			return nil, apperrors.NewMalformedResponseError(firestoreService, fmt.Sprintf("transaction %d: %v", i, err))
		}
		txs = append(txs, tx)
	}
	return &clients.UserDocument{Transactions: txs}, nil
}

// firestoreValue is the wire form of a Firestore Value. Zero numbers may arrive as an
// empty object because the client omits zero fields.
type firestoreValue struct {
	StringValue    *string         `json:"stringValue,omitempty"`
	IntegerValue   *string         `json:"integerValue,omitempty"`
	DoubleValue    *json.Number    `json:"doubleValue,omitempty"`
	TimestampValue *string         `json:"timestampValue,omitempty"`
	NullValue      *string         `json:"nullValue,omitempty"`
	ArrayValue     *firestoreArray `json:"arrayValue,omitempty"`
	MapValue       *firestoreMap   `json:"mapValue,omitempty"`
}

type firestoreArray struct {
	Values []firestoreValue `json:"values"`
}

type firestoreMap struct {
	Fields map[string]firestoreValue `json:"fields"`
}

func (v firestoreValue) isEmpty() bool {
	return v.StringValue == nil && v.IntegerValue == nil && v.DoubleValue == nil &&
		v.TimestampValue == nil && v.NullValue == nil && v.ArrayValue == nil && v.MapValue == nil
}

func (v firestoreValue) asString() (string, error) {
	if v.StringValue != nil {
		return *v.StringValue, nil
	}
	if v.isEmpty() {
		return "", nil
	}
	return "", errors.New("expected a string")
}

func (v firestoreValue) asDecimal() (decimal.Decimal, error) {
	switch {
	case v.IntegerValue != nil:
		return decimal.NewFromString(*v.IntegerValue)
	case v.DoubleValue != nil:
		return decimal.NewFromString(v.DoubleValue.String())
	case v.isEmpty():
		return decimal.Zero, nil
	}
	return decimal.Zero, errors.New("expected a number")
}

// asTime accepts a Firestore timestamp, an RFC 3339 string or epoch milliseconds.
func (v firestoreValue) asTime() (time.Time, error) {
	switch {
	case v.TimestampValue != nil:
		return time.Parse(time.RFC3339Nano, *v.TimestampValue)
	case v.StringValue != nil:
		return time.Parse(time.RFC3339Nano, *v.StringValue)
	case v.IntegerValue != nil:
		ms, err := strconv.ParseInt(*v.IntegerValue, 10, 64)
		if err != nil {
			return time.Time{}, err
		}
		return time.UnixMilli(ms).UTC(), nil
	}
	return time.Time{}, errors.New("expected a timestamp")
}

func decodeTransaction(v firestoreValue) (domain.Transaction, error) {
	if v.MapValue == nil {
		return domain.Transaction{}, errors.New("expected a map")
	}
	f := v.MapValue.Fields

	var (
		tx  domain.Transaction
		err error
	)
	if tx.Name, err = f["name"].asString(); err != nil {
		return tx, fmt.Errorf("name: %w", err)
	}
	if tx.Icon, err = f["icon"].asString(); err != nil {
		return tx, fmt.Errorf("icon: %w", err)
	}
	if tx.Amount, err = f["amount"].asDecimal(); err != nil {
		return tx, fmt.Errorf("amount: %w", err)
	}
	date, ok := f["date"]
	if !ok {
		return tx, errors.New("date: missing")
	}
	if tx.Date, err = date.asTime(); err != nil {
		return tx, fmt.Errorf("date: %w", err)
	}
	if cashback, ok := f["cashback"]; ok && cashback.NullValue == nil {
		amount, err := cashback.asDecimal()
		if err != nil {
			return tx, fmt.Errorf("cashback: %w", err)
		}
		tx.Cashback = &amount
	}
	return tx, nil
}
