// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/toeirei/ledgermaster/internal/apperrors"
	"github.com/toeirei/ledgermaster/internal/db"
	"github.com/toeirei/ledgermaster/internal/model"
)

// BackupSchemaVersion is the snapshot format written by WriteBackup.
const BackupSchemaVersion = 1

// RestoreOptions controls restore behavior used by Restore.
type RestoreOptions struct {
	// Full wipes the store before importing. Otherwise rows colliding with
	// existing data are skipped.
	Full bool
	// Actor is recorded in the audit log.
	Actor string
}

// WriteBackup writes data as zstd-compressed JSON.
func WriteBackup(ctx context.Context, data *model.BackupData, w io.Writer) error {
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		_ = zw.Close()
		return fmt.Errorf("encode backup: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("flush backup: %w", err)
	}
	return nil
}

// ReadBackup decodes a snapshot written by WriteBackup.
func ReadBackup(r io.Reader) (*model.BackupData, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd reader: %w", err)
	}
	defer zr.Close()
	var data model.BackupData
	if err := json.NewDecoder(zr).Decode(&data); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidArgument, "read backup", err)
	}
	if data.SchemaVersion != BackupSchemaVersion {
		return nil, apperrors.Newf(apperrors.CodeInvalidArgument, "read backup", "unsupported backup schema version %d", data.SchemaVersion)
	}
	return &data, nil
}

// Backup exports st and writes the snapshot to w.
func Backup(ctx context.Context, st db.Store, w io.Writer) (*model.BackupData, error) {
	data, err := st.ExportDataForBackup(ctx)
	if err != nil {
		return nil, storeErr("backup", err)
	}
	data.SchemaVersion = BackupSchemaVersion
	if err := WriteBackup(ctx, data, w); err != nil {
		return nil, err
	}
	return data, nil
}

// Restore reads a zstd-compressed JSON backup and imports it via the Store.
func Restore(ctx context.Context, r io.Reader, opts RestoreOptions, st db.Store) error {
	data, err := ReadBackup(r)
	if err != nil {
		return err
	}
	if opts.Full {
		err = st.ImportDataFromBackup(ctx, data)
	} else {
		err = st.IntegrateDataFromBackup(ctx, data)
	}
	if err != nil {
		return storeErr("restore", err)
	}
	audit(ctx, st, opts.Actor, ActionRestore, "full=%t accounts=%d transactions=%d", opts.Full, len(data.Accounts), len(data.Transactions))
	return nil
}

// Migrate copies every row of st into a freshly migrated store of another
// engine. The target store is closed before returning.
func Migrate(ctx context.Context, factory StoreFactory, st db.Store, targetType, targetDsn string) error {
	data, err := st.ExportDataForBackup(ctx)
	if err != nil {
		return fmt.Errorf("export backup: %w", err)
	}
	targetStore, err := factory.NewStoreFromDSN(targetType, targetDsn)
	if err != nil {
		return fmt.Errorf("init target store: %w", err)
	}
	defer func() { _ = targetStore.Close() }()
	if err := targetStore.ImportDataFromBackup(ctx, data); err != nil {
		return fmt.Errorf("import to target: %w", err)
	}
	return nil
}
