package registration

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tipon-events/tipon/internal/platform/database/schema"
	"github.com/tipon-events/tipon/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) ListAdmissionRows(ctx context.Context, scope string) ([]AdmissionRow, error) {
	query := fmt.Sprintf(`
		SELECT d.%s, d.%s, h.%s
		FROM %s d
		LEFT JOIN %s h ON h.%s = d.%s AND h.%s = d.%s
		WHERE d.%s = $1
	`,
		schema.RegDetail.Province, schema.RegDetail.LGU, schema.RegHeader.Status,
		schema.RegDetail.Table,
		schema.RegHeader.Table, schema.RegHeader.Regnum, schema.RegDetail.Regnum,
		schema.RegHeader.Scope, schema.RegDetail.Scope,
		schema.RegDetail.Scope,
	)

	rows, err := repository.db.Query(ctx, query, scope)
	if err != nil {
		return nil, dberr.Wrap(err, "list_admission_rows")
	}
	defer rows.Close()

	var result []AdmissionRow
	for rows.Next() {
		var row AdmissionRow
		if err := rows.Scan(&row.Province, &row.LGU, &row.Status); err != nil {
			return nil, dberr.Wrap(err, "scan_admission_row")
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_admission_rows")
	}

	return result, nil
}

func (repository *PostgresRepository) TransactionIDExists(ctx context.Context, transID string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.RegHeader.Table, schema.RegHeader.TransID,
	)

	var exists bool
	if err := repository.db.QueryRow(ctx, query, transID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "transaction_id_exists")
	}

	return exists, nil
}

func (repository *PostgresRepository) InsertHeader(ctx context.Context, header *Header) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s
	`,
		schema.RegHeader.Table,
		schema.RegHeader.TransID, schema.RegHeader.Scope, schema.RegHeader.Province,
		schema.RegHeader.LGU, schema.RegHeader.ContactPerson, schema.RegHeader.ContactNumber,
		schema.RegHeader.EmailAddress, schema.RegHeader.CreatedAt, schema.RegHeader.Status,
		schema.RegHeader.Regnum,
	)

	err := repository.db.QueryRow(ctx, query,
		header.TransID, header.Scope, header.Province, header.LGU,
		header.ContactPerson, header.ContactNumber, header.EmailAddress,
		header.CreatedAt, header.Status,
	).Scan(&header.Regnum)

	return dberr.Wrap(err, "insert_header")
}

func (repository *PostgresRepository) InsertDetails(ctx context.Context, details []*Detail) error {
	if len(details) == 0 {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`,
		schema.RegDetail.Table,
		schema.RegDetail.Regnum, schema.RegDetail.Scope, schema.RegDetail.TransID,
		schema.RegDetail.LineNo, schema.RegDetail.LastName, schema.RegDetail.FirstName,
		schema.RegDetail.MiddleName, schema.RegDetail.Suffix, schema.RegDetail.Designation,
		schema.RegDetail.Barangay, schema.RegDetail.LGU, schema.RegDetail.Province,
		schema.RegDetail.ShirtSize, schema.RegDetail.ContactNumber, schema.RegDetail.LicenseNo,
		schema.RegDetail.LicenseExpiry, schema.RegDetail.EmailAddress,
	)

	batch := &pgx.Batch{}
	for _, detail := range details {
		batch.Queue(query,
			detail.Regnum, detail.Scope, detail.TransID, detail.LineNo,
			detail.LastName, detail.FirstName, detail.MiddleName, detail.Suffix,
			detail.Designation, detail.Barangay, detail.LGU, detail.Province,
			detail.ShirtSize, detail.ContactNumber, detail.LicenseNo,
			detail.LicenseExpiry, detail.EmailAddress,
		)
	}

	results := repository.db.SendBatch(ctx, batch)
	defer results.Close()

	for range details {
		if _, err := results.Exec(); err != nil {
			return dberr.Wrap(err, "insert_details")
		}
	}

	return nil
}

func (repository *PostgresRepository) DeleteHeader(ctx context.Context, regnum int, scope string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.RegHeader.Table, schema.RegHeader.Regnum, schema.RegHeader.Scope,
	)

	cmd, err := repository.db.Exec(ctx, query, regnum, scope)
	if err != nil {
		return dberr.Wrap(err, "delete_header")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) GetByTransactionID(ctx context.Context, transID string) (*Registration, error) {
	headerQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		schema.RegHeader.Regnum, schema.RegHeader.TransID, schema.RegHeader.Scope,
		schema.RegHeader.Province, schema.RegHeader.LGU, schema.RegHeader.ContactPerson,
		schema.RegHeader.ContactNumber, schema.RegHeader.EmailAddress, schema.RegHeader.CreatedAt,
		schema.RegHeader.Status, schema.RegHeader.Remarks, schema.RegHeader.ProofRef,
		schema.RegHeader.Table, schema.RegHeader.TransID,
	)

	header := &Header{}
	err := repository.db.QueryRow(ctx, headerQuery, transID).Scan(
		&header.Regnum, &header.TransID, &header.Scope, &header.Province,
		&header.LGU, &header.ContactPerson, &header.ContactNumber,
		&header.EmailAddress, &header.CreatedAt, &header.Status,
		&header.Remarks, &header.ProofRef,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_header")
	}

	detailQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2
		ORDER BY %s ASC
	`,
		schema.RegDetail.LineNo, schema.RegDetail.LastName, schema.RegDetail.FirstName,
		schema.RegDetail.MiddleName, schema.RegDetail.Suffix, schema.RegDetail.Designation,
		schema.RegDetail.Barangay, schema.RegDetail.LGU, schema.RegDetail.Province,
		schema.RegDetail.ShirtSize, schema.RegDetail.ContactNumber, schema.RegDetail.LicenseNo,
		schema.RegDetail.LicenseExpiry, schema.RegDetail.EmailAddress,
		schema.RegDetail.Table,
		schema.RegDetail.Regnum, schema.RegDetail.Scope,
		schema.RegDetail.LineNo,
	)

	rows, err := repository.db.Query(ctx, detailQuery, header.Regnum, header.Scope)
	if err != nil {
		return nil, dberr.Wrap(err, "list_details")
	}
	defer rows.Close()

	var details []*Detail
	for rows.Next() {
		detail := &Detail{Regnum: header.Regnum, Scope: header.Scope, TransID: header.TransID}
		if err := rows.Scan(
			&detail.LineNo, &detail.LastName, &detail.FirstName, &detail.MiddleName,
			&detail.Suffix, &detail.Designation, &detail.Barangay, &detail.LGU,
			&detail.Province, &detail.ShirtSize, &detail.ContactNumber,
			&detail.LicenseNo, &detail.LicenseExpiry, &detail.EmailAddress,
		); err != nil {
			return nil, dberr.Wrap(err, "scan_detail")
		}
		details = append(details, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_details")
	}

	return &Registration{Header: header, Details: details}, nil
}
