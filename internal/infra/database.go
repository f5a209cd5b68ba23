package infra

import (
	"fmt"

	"vendafacil/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (sequences, partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations creates/updates the schema. Also used by integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Categoria{},
		&model.Produto{},
		&model.Cliente{},
		&model.Fornecedor{},
		&model.SessaoCaixa{},
		&model.MovimentoCaixa{},
		&model.Venda{},
		&model.ItemVenda{},
		&model.Devolucao{},
		&model.ItemDevolucao{},
		&model.MovimentoEstoque{},
		&model.HistoricoPreco{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement uses IF NOT EXISTS semantics so re-running is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// Ticket numbers come from a sequence so they are atomic and gapless
		// enough under concurrency without table locks.
		{"create vendas_numero_ticket_seq",
			`CREATE SEQUENCE IF NOT EXISTS vendas_numero_ticket_seq START 1`},

		// One ABERTO session per operator. The service checks first, but only
		// this partial unique index closes the race between two simultaneous
		// opens for the same user.
		{"create uniq_sessao_aberta_por_usuario", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uniq_sessao_aberta_por_usuario') THEN
    CREATE UNIQUE INDEX uniq_sessao_aberta_por_usuario
        ON sessoes_caixa (usuario_id)
        WHERE status = 'ABERTO';
  END IF;
END $$`},

		// Belt and suspenders under the application-level check: stock can
		// never be negative, whatever path writes it.
		{"create chk_produtos_estoque_nao_negativo", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_produtos_estoque_nao_negativo') THEN
    ALTER TABLE produtos
      ADD CONSTRAINT chk_produtos_estoque_nao_negativo CHECK (estoque >= 0);
  END IF;
END $$`},

		// Hot path of the movement ledger: per-product history ordered by time.
		{"create idx_movimentos_estoque_produto_data", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_movimentos_estoque_produto_data') THEN
    CREATE INDEX idx_movimentos_estoque_produto_data
        ON movimentos_estoque (produto_id, created_at DESC);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("schema patch %q: %w", p.descr, err)
		}
	}
	return nil
}
