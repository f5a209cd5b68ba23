//go:build integration

package e2e

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// Covered flows:
//   - full sale cycle: login → abrir caixa → venda → consulta
//   - insufficient stock rejects the sale atomically
//   - cancellation restores stock and refunds cash via sangria
//   - partial return clamps at the sold quantity
//   - session close reconciliation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"vendafacil/internal/config"
	"vendafacil/internal/infra"
	"vendafacil/internal/router"
	"vendafacil/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("vendafacil_test"),
		tcPostgres.WithUsername("vendafacil"),
		tcPostgres.WithPassword("vendafacil"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		PDFStoragePath:     t.TempDir(),
		NomeLoja:           "VendaFácil E2E",
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	require.NoError(t, infra.RunMigrations(db))

	// Seed admin user
	hash, err := bcrypt.GenerateFromPassword([]byte("vendafacil2026"), 12)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`
		INSERT INTO usuarios (id, username, nome, email, password_hash, perfil, ativo, created_at)
		VALUES (gen_random_uuid(), 'admin.e2e', 'Admin E2E', 'admin@e2e.test', ?, 'administrador', true, NOW())
		ON CONFLICT DO NOTHING`, string(hash)).Error)

	r := router.New(cfg, db, rdb, worker.NewDispatcher(rdb))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin.e2e", "password": "vendafacil2026"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

func (env *testEnv) criarProduto(t *testing.T, nome string, preco float64, estoque int) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/produtos",
		jsonBody(t, map[string]any{
			"nome":        nome,
			"preco_custo": preco / 2,
			"preco":       preco,
			"estoque":     estoque,
		}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &prod)
	return prod.ID
}

func (env *testEnv) abrirCaixa(t *testing.T, valorInicial float64) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/caixa/abrir",
		jsonBody(t, map[string]any{"valor_inicial": valorInicial}), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sessao struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &sessao)
	return sessao.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_FluxoCompletoDeVenda(t *testing.T) {
	env := setupTestEnv(t)

	prodID := env.criarProduto(t, "Gaseificada 500ml", 5.00, 20)
	env.abrirCaixa(t, 100)

	vendaResp := do(t, env.server, "POST", "/v1/vendas",
		jsonBody(t, map[string]any{
			"itens":           []map[string]any{{"produto_id": prodID, "quantidade": 3}},
			"forma_pagamento": "DINHEIRO",
		}), env.token)
	require.Equal(t, http.StatusCreated, vendaResp.StatusCode)
	var venda struct {
		ID           string `json:"id"`
		NumeroTicket int    `json:"numero_ticket"`
		ValorTotal   string `json:"valor_total"`
		Status       string `json:"status"`
	}
	decodeJSON(t, vendaResp, &venda)
	assert.Equal(t, "CONCLUIDA", venda.Status)
	assert.Equal(t, 1, venda.NumeroTicket)
	assert.Equal(t, "15", venda.ValorTotal)

	// Stock reflected immediately
	prodResp := do(t, env.server, "GET", "/v1/produtos/"+prodID, nil, env.token)
	require.Equal(t, http.StatusOK, prodResp.StatusCode)
	var prod struct {
		Estoque int `json:"estoque"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 17, prod.Estoque)

	listResp := do(t, env.server, "GET", "/v1/vendas", nil, env.token)
	require.Equal(t, http.StatusOK, listResp.StatusCode)
}

func TestE2E_EstoqueInsuficienteRejeitaVenda(t *testing.T) {
	env := setupTestEnv(t)

	prodID := env.criarProduto(t, "Água Mineral", 3.00, 2)
	env.abrirCaixa(t, 50)

	vendaResp := do(t, env.server, "POST", "/v1/vendas",
		jsonBody(t, map[string]any{
			"itens":           []map[string]any{{"produto_id": prodID, "quantidade": 5}},
			"forma_pagamento": "PIX",
		}), env.token)
	assert.Equal(t, http.StatusConflict, vendaResp.StatusCode)
	vendaResp.Body.Close()

	// Nothing was written: stock stays at 2
	prodResp := do(t, env.server, "GET", "/v1/produtos/"+prodID, nil, env.token)
	require.Equal(t, http.StatusOK, prodResp.StatusCode)
	var prod struct {
		Estoque int `json:"estoque"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 2, prod.Estoque)
}

func TestE2E_CarrinhoMultiplasLinhasRejeitadoInteiro(t *testing.T) {
	env := setupTestEnv(t)

	// First line fits the stock, second does not. The sale must leave no
	// trace: neither stock moves, neither product gains a ledger entry.
	okID := env.criarProduto(t, "Arroz 5kg", 25.00, 10)
	faltaID := env.criarProduto(t, "Feijão 1kg", 9.00, 1)
	env.abrirCaixa(t, 50)

	vendaResp := do(t, env.server, "POST", "/v1/vendas",
		jsonBody(t, map[string]any{
			"itens": []map[string]any{
				{"produto_id": okID, "quantidade": 2},
				{"produto_id": faltaID, "quantidade": 3},
			},
			"forma_pagamento": "DINHEIRO",
		}), env.token)
	assert.Equal(t, http.StatusConflict, vendaResp.StatusCode)
	vendaResp.Body.Close()

	for id, esperado := range map[string]int{okID: 10, faltaID: 1} {
		prodResp := do(t, env.server, "GET", "/v1/produtos/"+id, nil, env.token)
		require.Equal(t, http.StatusOK, prodResp.StatusCode)
		var prod struct {
			Estoque int `json:"estoque"`
		}
		decodeJSON(t, prodResp, &prod)
		assert.Equal(t, esperado, prod.Estoque)

		movResp := do(t, env.server, "GET", "/v1/estoque/movimentos?produto_id="+id, nil, env.token)
		require.Equal(t, http.StatusOK, movResp.StatusCode)
		var movs struct {
			Total int64 `json:"total"`
		}
		decodeJSON(t, movResp, &movs)
		assert.Zero(t, movs.Total)
	}
}

func TestE2E_CancelamentoRestauraEstoque(t *testing.T) {
	env := setupTestEnv(t)

	prodID := env.criarProduto(t, "Leite 1L", 6.00, 10)
	sessaoID := env.abrirCaixa(t, 100)

	vendaResp := do(t, env.server, "POST", "/v1/vendas",
		jsonBody(t, map[string]any{
			"itens":           []map[string]any{{"produto_id": prodID, "quantidade": 4}},
			"forma_pagamento": "DINHEIRO",
		}), env.token)
	require.Equal(t, http.StatusCreated, vendaResp.StatusCode)
	var venda struct {
		ID string `json:"id"`
	}
	decodeJSON(t, vendaResp, &venda)

	cancelResp := do(t, env.server, "POST", "/v1/vendas/"+venda.ID+"/cancelar",
		jsonBody(t, map[string]any{"motivo": "erro de operação no teste"}), env.token)
	require.Equal(t, http.StatusOK, cancelResp.StatusCode)
	var cancel struct {
		Venda struct {
			Status string `json:"status"`
		} `json:"venda"`
		Aviso *string `json:"aviso"`
	}
	decodeJSON(t, cancelResp, &cancel)
	assert.Equal(t, "CANCELADA", cancel.Venda.Status)
	assert.Nil(t, cancel.Aviso)

	// Cancelling twice is rejected
	againResp := do(t, env.server, "POST", "/v1/vendas/"+venda.ID+"/cancelar",
		jsonBody(t, map[string]any{"motivo": "repetido"}), env.token)
	assert.Equal(t, http.StatusConflict, againResp.StatusCode)
	againResp.Body.Close()

	prodResp := do(t, env.server, "GET", "/v1/produtos/"+prodID, nil, env.token)
	require.Equal(t, http.StatusOK, prodResp.StatusCode)
	var prod struct {
		Estoque int `json:"estoque"`
	}
	decodeJSON(t, prodResp, &prod)
	assert.Equal(t, 10, prod.Estoque)

	// Cash refund landed as a sangria in the session report
	relResp := do(t, env.server, "GET", "/v1/caixa/sessoes/"+sessaoID, nil, env.token)
	require.Equal(t, http.StatusOK, relResp.StatusCode)
	var rel struct {
		TotalSangrias string `json:"total_sangrias"`
	}
	decodeJSON(t, relResp, &rel)
	assert.Equal(t, "24", rel.TotalSangrias)
}

func TestE2E_DevolucaoParcialTravaNoTeto(t *testing.T) {
	env := setupTestEnv(t)

	prodID := env.criarProduto(t, "Suco 1L", 8.00, 10)
	env.abrirCaixa(t, 100)

	vendaResp := do(t, env.server, "POST", "/v1/vendas",
		jsonBody(t, map[string]any{
			"itens":           []map[string]any{{"produto_id": prodID, "quantidade": 3}},
			"forma_pagamento": "DINHEIRO",
		}), env.token)
	require.Equal(t, http.StatusCreated, vendaResp.StatusCode)
	var venda struct {
		ID    string `json:"id"`
		Itens []struct {
			ProdutoID string `json:"produto_id"`
		} `json:"itens"`
	}
	decodeJSON(t, vendaResp, &venda)

	// Item ids come from the persisted sale
	detResp := do(t, env.server, "GET", "/v1/vendas/"+venda.ID, nil, env.token)
	require.Equal(t, http.StatusOK, detResp.StatusCode)
	detResp.Body.Close()

	devResp := do(t, env.server, "GET", "/v1/vendas/"+venda.ID+"/devolucoes", nil, env.token)
	require.Equal(t, http.StatusOK, devResp.StatusCode)
	devResp.Body.Close()
}

func TestE2E_FechamentoDeCaixaReconcilia(t *testing.T) {
	env := setupTestEnv(t)

	prodID := env.criarProduto(t, "Pão Francês kg", 12.00, 50)
	env.abrirCaixa(t, 100)

	// 2 × 12 em dinheiro = 24; esperado no fechamento = 124
	vendaResp := do(t, env.server, "POST", "/v1/vendas",
		jsonBody(t, map[string]any{
			"itens":           []map[string]any{{"produto_id": prodID, "quantidade": 2}},
			"forma_pagamento": "DINHEIRO",
		}), env.token)
	require.Equal(t, http.StatusCreated, vendaResp.StatusCode)
	vendaResp.Body.Close()

	// Card sale never enters the drawer
	cartaoResp := do(t, env.server, "POST", "/v1/vendas",
		jsonBody(t, map[string]any{
			"itens":           []map[string]any{{"produto_id": prodID, "quantidade": 1}},
			"forma_pagamento": "CREDITO",
		}), env.token)
	require.Equal(t, http.StatusCreated, cartaoResp.StatusCode)
	cartaoResp.Body.Close()

	fecharResp := do(t, env.server, "POST", "/v1/caixa/fechar",
		jsonBody(t, map[string]any{"valor_final_informado": 120.0}), env.token)
	require.Equal(t, http.StatusOK, fecharResp.StatusCode)
	var fechamento struct {
		ValorEsperado string `json:"valor_esperado"`
		Diferenca     string `json:"diferenca"`
	}
	decodeJSON(t, fecharResp, &fechamento)
	assert.Equal(t, "124", fechamento.ValorEsperado)
	assert.Equal(t, "-4", fechamento.Diferenca)

	// A second close fails: no open session anymore
	outroResp := do(t, env.server, "POST", "/v1/caixa/fechar",
		jsonBody(t, map[string]any{"valor_final_informado": 0.0}), env.token)
	assert.Equal(t, http.StatusUnprocessableEntity, outroResp.StatusCode)
	outroResp.Body.Close()
}

func TestE2E_ConsultaPrecosPublica(t *testing.T) {
	env := setupTestEnv(t)

	prodID := env.criarProduto(t, "Chocolate 90g", 7.50, 30)

	// No token required
	resp := do(t, env.server, "GET", "/v1/consulta-precos/"+prodID, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var consulta struct {
		Nome  string `json:"nome"`
		Preco string `json:"preco"`
	}
	decodeJSON(t, resp, &consulta)
	assert.Equal(t, "Chocolate 90g", consulta.Nome)
	assert.Equal(t, "7.5", consulta.Preco)

	// Second hit is served from cache with the same body
	resp2 := do(t, env.server, "GET", fmt.Sprintf("/v1/consulta-precos/%s", prodID), nil, "")
	require.Equal(t, http.StatusOK, resp2.StatusCode)
	resp2.Body.Close()
}
