package migration

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"todoevo/config"
	"todoevo/helper"
	ownerRepository "todoevo/internal/domains/owner/repository"
	"todoevo/internal/domains/task/model"
	"todoevo/shared/constant"
	"todoevo/shared/timezone"
)

var (
	// ErrInvalidOwner aborts a run when a source row carries an owner
	// identifier that cannot key a record. The export is kept so the row can
	// be inspected and fixed before retrying.
	ErrInvalidOwner = errors.New("source row carries an empty owner id")

	// ErrNotResumable means the manifest's state has nothing to continue
	// from; the run has to be started over.
	ErrNotResumable = errors.New("cutover run is not resumable from its recorded state")
)

// Runner drives the one-way cutover from the embedded database file to the
// networked backend. The source is opened read-only and is never deleted; it
// stays on disk as the rollback point until an operator removes it.
type Runner struct {
	cfg    *config.Config
	source *sqlx.DB
	target *sqlx.DB
	owners ownerRepository.Owner
}

func NewRunner(cfg *config.Config, source, target *sqlx.DB, owners ownerRepository.Owner) *Runner {
	return &Runner{
		cfg:    cfg,
		source: source,
		target: target,
		owners: owners,
	}
}

// Run executes a fresh cutover from the beginning. Every completed step
// checkpoints the manifest, so a failure mid-run leaves a resumable trail.
func (r *Runner) Run(ctx context.Context) error {
	runID := uuid.New()
	log.Info().Str("run_id", runID.String()).Msg("Starting cutover run")

	if err := r.applySchema(); err != nil {
		return err
	}

	if err := r.checkpoint(runID, StateSchemaApplied); err != nil {
		return err
	}

	export, err := r.exportData(ctx, runID)
	if err != nil {
		return err
	}

	if err := r.checkpoint(runID, StateDataExported); err != nil {
		return err
	}

	return r.continueFrom(ctx, export, StateDataExported)
}

// Resume picks an interrupted run back up from its manifest. Everything
// after the export checkpoint works from the retained artifact; the source
// database is never read again.
func (r *Runner) Resume(ctx context.Context) error {
	manifest, err := ReadManifest(r.cfg.Cutover.ManifestPath)
	if err != nil {
		return err
	}

	if manifest.State == StateComplete {
		log.Info().Str("run_id", manifest.RunID.String()).Msg("Cutover run already complete")

		return nil
	}

	if !manifest.State.Resumable() {
		return fmt.Errorf("%w: reached %q, restart the run", ErrNotResumable, manifest.State)
	}

	export, err := ReadExport(manifest.ExportPath)
	if err != nil {
		return err
	}

	if export.RunID != manifest.RunID {
		return fmt.Errorf("export artifact belongs to run %s, manifest records %s", export.RunID, manifest.RunID)
	}

	log.Info().
		Str("run_id", manifest.RunID.String()).
		Str("state", manifest.State.String()).
		Msg("Resuming cutover run")

	return r.continueFrom(ctx, export, manifest.State)
}

// Status reports the last checkpoint recorded on disk.
func (r *Runner) Status() (Manifest, error) {
	return ReadManifest(r.cfg.Cutover.ManifestPath)
}

// continueFrom walks the remaining checkpoints in order. Each step is
// idempotent against the target, so replaying one after a crash is safe.
func (r *Runner) continueFrom(ctx context.Context, export Export, reached State) error {
	for state := reached; state != StateComplete; {
		next, err := state.Next()
		if err != nil {
			return err
		}

		if err := r.step(ctx, export, next); err != nil {
			return err
		}

		if err := r.checkpoint(export.RunID, next); err != nil {
			return err
		}

		state = next
	}

	log.Info().
		Str("run_id", export.RunID.String()).
		Int("tasks", len(export.Tasks)).
		Msg("Cutover run complete; source file retained for rollback")

	return nil
}

func (r *Runner) step(ctx context.Context, export Export, target State) error {
	switch target {
	case StateOwnerMapped:
		_, err := r.mapOwners(ctx, export.Tasks)

		return err
	case StateDataImported:
		return r.importData(ctx, export.Tasks)
	case StateValidated:
		return r.validate(ctx, export.Tasks)
	case StateComplete:
		return nil
	default:
		return fmt.Errorf("no step produces cutover state %q", target)
	}
}

func (r *Runner) checkpoint(runID uuid.UUID, state State) error {
	manifest := Manifest{
		RunID:      runID,
		State:      state,
		ExportPath: r.cfg.Cutover.ExportPath,
		UpdatedAt:  timezone.Now(),
	}

	if err := WriteManifest(r.cfg.Cutover.ManifestPath, manifest); err != nil {
		return err
	}

	log.Info().Str("run_id", runID.String()).Str("state", state.String()).Msg("Cutover checkpoint reached")

	return nil
}

func (r *Runner) applySchema() error {
	if err := helper.Up(r.target, constant.DriverPostgres, r.cfg); err != nil {
		return fmt.Errorf("applying target schema: %w", err)
	}

	return nil
}

func (r *Runner) exportData(ctx context.Context, runID uuid.UUID) (Export, error) {
	const query = `
	SELECT id, owner_id, title, completed, created_at, updated_at,
	       description, priority, tags, due_date, recurrence_pattern
	FROM tasks
	ORDER BY id ASC
	`

	tasks := make([]model.Task, 0)
	if err := r.source.SelectContext(ctx, &tasks, query); err != nil {
		return Export{}, fmt.Errorf("reading source rows: %w", err)
	}

	export := Export{
		RunID:      runID,
		ExportedAt: timezone.Now(),
		SourcePath: r.cfg.DB.Sqlite.Path,
		Tasks:      tasks,
	}

	if err := WriteExport(r.cfg.Cutover.ExportPath, export); err != nil {
		return Export{}, err
	}

	log.Info().Int("tasks", len(tasks)).Str("path", r.cfg.Cutover.ExportPath).Msg("Source data exported")

	return export, nil
}

// mapOwners creates one owner record per distinct identifier in the export,
// in first-occurrence order, and returns the name-to-key mapping. Re-running
// it settles on the same records.
func (r *Runner) mapOwners(ctx context.Context, tasks []model.Task) (map[string]int64, error) {
	names, err := distinctOwners(tasks)
	if err != nil {
		return nil, err
	}

	keys := make(map[string]int64, len(names))

	for _, name := range names {
		id, err := r.owners.EnsureByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("mapping owner %q: %w", name, err)
		}

		keys[name] = id
	}

	log.Info().Int("owners", len(keys)).Msg("Owner identifiers mapped")

	return keys, nil
}

// importData loads the exported rows into the target inside one transaction.
// The target's tasks table is cleared first, so replaying the step after a
// partial failure cannot duplicate rows.
func (r *Runner) importData(ctx context.Context, tasks []model.Task) error {
	keys, err := r.mapOwners(ctx, tasks)
	if err != nil {
		return err
	}

	tx, err := r.target.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting import transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clearing target rows: %w", err)
	}

	const insert = `
	INSERT INTO tasks
		(id, owner_id, title, completed, created_at, updated_at,
		 description, priority, tags, due_date, recurrence_pattern)
	VALUES
		($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for _, task := range tasks {
		ownerKey, ok := keys[task.OwnerID.String()]
		if !ok {
			return fmt.Errorf("no owner mapping for task %d", task.ID)
		}

		_, err := tx.ExecContext(ctx, insert,
			task.ID, ownerKey, task.Title, task.Completed, task.CreatedAt, task.UpdatedAt,
			task.Description, task.Priority, task.Tags, task.DueDate, task.RecurrencePattern,
		)
		if err != nil {
			return fmt.Errorf("importing task %d: %w", task.ID, err)
		}
	}

	// Imported rows keep their source ids; move the sequence past them so
	// the first post-cutover insert does not collide.
	const bumpSequence = `
	SELECT setval(pg_get_serial_sequence('tasks', 'id'), COALESCE(MAX(id), 0) + 1, false) FROM tasks
	`
	if _, err := tx.ExecContext(ctx, bumpSequence); err != nil {
		return fmt.Errorf("advancing id sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing import: %w", err)
	}

	log.Info().Int("tasks", len(tasks)).Msg("Target data imported")

	return nil
}

// validate compares the target against the export: total row count and the
// per-owner row counts must match exactly before the run may complete.
func (r *Runner) validate(ctx context.Context, tasks []model.Task) error {
	var total int
	if err := r.target.GetContext(ctx, &total, `SELECT COUNT(id) FROM tasks`); err != nil {
		return fmt.Errorf("counting target rows: %w", err)
	}

	if total != len(tasks) {
		return fmt.Errorf("target holds %d tasks, export holds %d", total, len(tasks))
	}

	expected := ownerCounts(tasks)

	rows := make([]struct {
		Owner string `db:"owner"`
		Count int    `db:"count"`
	}, 0, len(expected))

	const perOwner = `
	SELECT o.name AS owner, COUNT(t.id) AS count
	FROM tasks t
	JOIN owners o ON o.id = t.owner_id
	GROUP BY o.name
	`
	if err := r.target.SelectContext(ctx, &rows, perOwner); err != nil {
		return fmt.Errorf("counting target rows per owner: %w", err)
	}

	if len(rows) != len(expected) {
		return fmt.Errorf("target holds %d owners, export holds %d", len(rows), len(expected))
	}

	for _, row := range rows {
		if expected[row.Owner] != row.Count {
			return fmt.Errorf("owner %q holds %d tasks in target, %d in export", row.Owner, row.Count, expected[row.Owner])
		}
	}

	log.Info().Int("tasks", total).Int("owners", len(rows)).Msg("Target data validated against export")

	return nil
}

// distinctOwners lists the owner identifiers of the export in first
// occurrence order. Any empty or whitespace-only identifier aborts the run;
// silently inventing a record for it would detach the rows from every
// caller.
func distinctOwners(tasks []model.Task) ([]string, error) {
	seen := make(map[string]struct{}, len(tasks))
	names := make([]string, 0, len(tasks))

	for _, task := range tasks {
		if task.OwnerID.IsEmpty() {
			return nil, fmt.Errorf("%w: task %d", ErrInvalidOwner, task.ID)
		}

		name := task.OwnerID.String()
		if _, ok := seen[name]; ok {
			continue
		}

		seen[name] = struct{}{}
		names = append(names, name)
	}

	return names, nil
}

func ownerCounts(tasks []model.Task) map[string]int {
	counts := make(map[string]int, len(tasks))
	for _, task := range tasks {
		counts[task.OwnerID.String()]++
	}

	return counts
}
