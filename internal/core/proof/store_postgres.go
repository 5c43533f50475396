package proof

import (
	"context"
	"fmt"

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

func (repository *PostgresRepository) ResolveRegistration(ctx context.Context, transID string) (int, string, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = $1`,
		schema.RegHeader.Regnum, schema.RegHeader.Scope,
		schema.RegHeader.Table, schema.RegHeader.TransID,
	)

	var regnum int
	var scope string
	if err := repository.db.QueryRow(ctx, query, transID).Scan(&regnum, &scope); err != nil {
		return 0, "", dberr.Wrap(err, "resolve_registration")
	}

	return regnum, scope, nil
}

func (repository *PostgresRepository) CountDetails(ctx context.Context, regnum int, scope string) (int, error) {
	query := fmt.Sprintf(`SELECT count(*) FROM %s WHERE %s = $1 AND %s = $2`,
		schema.RegDetail.Table, schema.RegDetail.Regnum, schema.RegDetail.Scope,
	)

	var count int
	if err := repository.db.QueryRow(ctx, query, regnum, scope).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "count_details")
	}

	return count, nil
}

func (repository *PostgresRepository) ListProofs(ctx context.Context, regnum int, scope string) ([]*Proof, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = $2
		ORDER BY %s ASC
	`,
		schema.RegPaymentProof.Seq, schema.RegPaymentProof.ObjectKey, schema.RegPaymentProof.URL,
		schema.RegPaymentProof.Table,
		schema.RegPaymentProof.Regnum, schema.RegPaymentProof.Scope,
		schema.RegPaymentProof.Seq,
	)

	rows, err := repository.db.Query(ctx, query, regnum, scope)
	if err != nil {
		return nil, dberr.Wrap(err, "list_proofs")
	}
	defer rows.Close()

	var proofs []*Proof
	for rows.Next() {
		p := &Proof{Regnum: regnum, Scope: scope}
		if err := rows.Scan(&p.Seq, &p.ObjectKey, &p.URL); err != nil {
			return nil, dberr.Wrap(err, "scan_proof")
		}
		proofs = append(proofs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_proofs")
	}

	return proofs, nil
}

func (repository *PostgresRepository) InsertProof(ctx context.Context, p *Proof) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING %s
	`,
		schema.RegPaymentProof.Table,
		schema.RegPaymentProof.Regnum, schema.RegPaymentProof.Scope, schema.RegPaymentProof.Seq,
		schema.RegPaymentProof.ObjectKey, schema.RegPaymentProof.URL, schema.RegPaymentProof.UploadedAt,
		schema.RegPaymentProof.UploadedAt,
	)

	err := repository.db.QueryRow(ctx, query, p.Regnum, p.Scope, p.Seq, p.ObjectKey, p.URL).Scan(&p.UploadedAt)
	return dberr.Wrap(err, "insert_proof")
}

func (repository *PostgresRepository) DeleteProof(ctx context.Context, regnum int, scope string, seq int) (*Proof, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE %s = $1 AND %s = $2 AND %s = $3
		RETURNING %s, %s, %s
	`,
		schema.RegPaymentProof.Table,
		schema.RegPaymentProof.Regnum, schema.RegPaymentProof.Scope, schema.RegPaymentProof.Seq,
		schema.RegPaymentProof.ObjectKey, schema.RegPaymentProof.URL, schema.RegPaymentProof.UploadedAt,
	)

	p := &Proof{Regnum: regnum, Scope: scope, Seq: seq}
	err := repository.db.QueryRow(ctx, query, regnum, scope, seq).Scan(&p.ObjectKey, &p.URL, &p.UploadedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "delete_proof")
	}

	return p, nil
}
