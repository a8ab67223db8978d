// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkpress/inkpress/pkg/errutil"
)

func TestConnect_InvalidDSN(t *testing.T) {
	_, err := Connect(context.Background(), "not a valid dsn ://")
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "STORE_CONNECT_FAILED")
}
