package firebase

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	firestore "google.golang.org/api/firestore/v1"
	"google.golang.org/api/idtoken"
	"google.golang.org/api/option"
)

// FirestoreOptions builds the client options for the document reader. An empty
// credentialsFile falls back to application default credentials; a non-empty endpoint
// points the client at an emulator or proxy, in which case no authentication is sent.
func FirestoreOptions(ctx context.Context, credentialsFile, endpoint string) ([]option.ClientOption, error) {
	if endpoint != "" {
		return []option.ClientOption{option.WithEndpoint(endpoint), option.WithoutAuthentication()}, nil
	}
	if credentialsFile == "" {
		creds, err := google.FindDefaultCredentials(ctx, firestore.DatastoreScope)
		if err != nil {
			return nil, fmt.Errorf("failed to find default credentials: %w", err)
		}
		return []option.ClientOption{option.WithTokenSource(creds.TokenSource)}, nil
	}

	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, firestore.DatastoreScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}
	return []option.ClientOption{option.WithTokenSource(creds.TokenSource)}, nil
}

// FunctionTokenSource returns a source of ID tokens whose audience is the function URL,
// as required by IAM protected functions. It returns nil when no credentials file is set.
func FunctionTokenSource(ctx context.Context, credentialsFile, functionURL string) (oauth2.TokenSource, error) {
	if credentialsFile == "" {
		return nil, nil
	}
	ts, err := idtoken.NewTokenSource(ctx, functionURL, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create function token source: %w", err)
	}
	return ts, nil
}

// FiatBalancesURL is the full URL of the fiat balance function under baseURL.
func FiatBalancesURL(baseURL string) string {
	return trimSlash(baseURL) + "/" + fiatBalancesFunction
}
