package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/RichardKnop/petrag"
)

func (a *Adapter) SaveRun(ctx context.Context, run *petrag.Run) error {
	trace, err := json.Marshal(run.Trace)
	if err != nil {
		return fmt.Errorf("error encoding run trace: %w", err)
	}

	return a.inTxDo(ctx, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		if err := execQueryCheckRowsAffected(ctx, tx, insertRunQuery{run: run, trace: string(trace)}); err != nil {
			return fmt.Errorf("exec insert run query failed: %w", err)
		}
		return nil
	})
}

type insertRunQuery struct {
	run   *petrag.Run
	trace string
}

func (q insertRunQuery) SQL() (string, []any) {
	query := `
		insert into "run" (
			"id",
			"question",
			"location",
			"intent",
			"intent_tier",
			"provenance",
			"used_fallback",
			"fallback_count",
			"evidence_count",
			"quality_average",
			"verdict",
			"rewrite_state",
			"rewrites",
			"best_effort",
			"facility_count",
			"final_text",
			"trace",
			"created"
		)
		values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		on conflict("id") do update set
			"provenance"=excluded."provenance",
			"used_fallback"=excluded."used_fallback",
			"fallback_count"=excluded."fallback_count",
			"evidence_count"=excluded."evidence_count",
			"quality_average"=excluded."quality_average",
			"verdict"=excluded."verdict",
			"rewrite_state"=excluded."rewrite_state",
			"rewrites"=excluded."rewrites",
			"best_effort"=excluded."best_effort",
			"facility_count"=excluded."facility_count",
			"final_text"=excluded."final_text",
			"trace"=excluded."trace"
	`
	r := q.run
	args := []any{
		r.ID,
		r.Question,
		sql.NullString{String: r.Location, Valid: r.Location != ""},
		string(r.Intent),
		string(r.IntentTier),
		sql.NullString{String: string(r.Provenance), Valid: r.Provenance != ""},
		r.UsedFallback,
		r.FallbackCount,
		r.EvidenceCount,
		r.QualityAverage,
		sql.NullString{String: string(r.Verdict), Valid: r.Verdict != ""},
		sql.NullString{String: string(r.RewriteState), Valid: r.RewriteState != ""},
		r.Rewrites,
		r.BestEffort,
		r.FacilityCount,
		r.FinalText,
		q.trace,
		r.Created.UTC(),
	}

	return query, args
}

func (a *Adapter) FindRun(ctx context.Context, id petrag.RunID) (*petrag.Run, error) {
	var aRun *petrag.Run
	if err := a.inTxDo(ctx, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		query, args := selectRunsQuery{id: id}.SQL()

		var err error
		aRun, err = scanRun(tx.QueryRowContext(ctx, query, args...))
		return err
	}); err != nil {
		return nil, err
	}

	return aRun, nil
}

func (a *Adapter) ListRuns(ctx context.Context, filter petrag.RunFilter, params petrag.SortParams) ([]*petrag.Run, error) {
	if !params.Empty() && !params.Valid(petrag.RunSortableFields) {
		return nil, fmt.Errorf("invalid sort params: %v", params)
	}

	var runs []*petrag.Run
	if err := a.inTxDo(ctx, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		query, args := selectRunsQuery{filter: filter, params: params.OrDefault()}.SQL()

		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("select runs query failed: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			aRun, err := scanRun(rows)
			if err != nil {
				return err
			}
			runs = append(runs, aRun)
		}

		return rows.Err()
	}); err != nil {
		return nil, err
	}

	return runs, nil
}

type selectRunsQuery struct {
	id     petrag.RunID
	filter petrag.RunFilter
	params petrag.SortParams
}

func (q selectRunsQuery) SQL() (string, []any) {
	query := `
		select
			"id",
			"question",
			"location",
			"intent",
			"intent_tier",
			"provenance",
			"used_fallback",
			"fallback_count",
			"evidence_count",
			"quality_average",
			"verdict",
			"rewrite_state",
			"rewrites",
			"best_effort",
			"facility_count",
			"final_text",
			"trace",
			"created"
		from "run"
	`

	var (
		clauses []string
		args    []any
	)
	if !q.id.IsNil() {
		clauses = append(clauses, `"id" = ?`)
		args = append(args, q.id)
	}
	if q.filter.Intent != "" {
		clauses = append(clauses, `"intent" = ?`)
		args = append(args, string(q.filter.Intent))
	}
	if q.filter.BestEffort != nil {
		clauses = append(clauses, `"best_effort" = ?`)
		args = append(args, *q.filter.BestEffort)
	}
	if len(clauses) > 0 {
		query += " where " + strings.Join(clauses, " and ")
	}

	query += q.params.SQL()

	return query, args
}

func scanRun(row Scannable) (*petrag.Run, error) {
	var (
		aRun         = new(petrag.Run)
		location     sql.NullString
		intent       string
		intentTier   string
		provenance   sql.NullString
		verdict      sql.NullString
		rewriteState sql.NullString
		trace        string
		created      sql.NullTime
	)

	if err := row.Scan(
		&aRun.ID,
		&aRun.Question,
		&location,
		&intent,
		&intentTier,
		&provenance,
		&aRun.UsedFallback,
		&aRun.FallbackCount,
		&aRun.EvidenceCount,
		&aRun.QualityAverage,
		&verdict,
		&rewriteState,
		&aRun.Rewrites,
		&aRun.BestEffort,
		&aRun.FacilityCount,
		&aRun.FinalText,
		&trace,
		&created,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, petrag.ErrNotFound
		}
		return nil, fmt.Errorf("scan run failed: %w", err)
	}

	if err := json.Unmarshal([]byte(trace), &aRun.Trace); err != nil {
		return nil, fmt.Errorf("invalid run trace: %w", err)
	}

	aRun.Location = location.String
	aRun.Intent = petrag.Intent(intent)
	aRun.IntentTier = petrag.Tier(intentTier)
	aRun.Provenance = petrag.Provenance(provenance.String)
	aRun.Verdict = petrag.Verdict(verdict.String)
	aRun.RewriteState = petrag.RewriteState(rewriteState.String)
	aRun.Created = created.Time.UTC()

	return aRun, nil
}
