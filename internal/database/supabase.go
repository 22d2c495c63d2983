package database

import (
	"fmt"

	supa "github.com/supabase-community/supabase-go"
)

// NewSupabaseClient creates the client for the hosted services and appointments tables.
func NewSupabaseClient(url, key string) (*supa.Client, error) {
	client, err := supa.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}
	return client, nil
}
