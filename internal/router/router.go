package router

import (
	"time"

	"vendafacil/internal/config"
	"vendafacil/internal/handler"
	"vendafacil/internal/middleware"
	"vendafacil/internal/repository"
	"vendafacil/internal/service"
	"vendafacil/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	produtoRepo := repository.NewProdutoRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	fornecedorRepo := repository.NewFornecedorRepository(db)
	vendaRepo := repository.NewVendaRepository(db)
	caixaRepo := repository.NewCaixaRepository(db)
	devolucaoRepo := repository.NewDevolucaoRepository(db)
	movimentoEstoqueRepo := repository.NewMovimentoEstoqueRepository(db)
	historicoPrecoRepo := repository.NewHistoricoPrecoRepository(db)
	relatorioRepo := repository.NewRelatorioRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	produtoSvc := service.NewProdutoService(produtoRepo, historicoPrecoRepo, usuarioRepo, rdb)
	categoriaSvc := service.NewCategoriaService(categoriaRepo)
	clienteSvc := service.NewClienteService(clienteRepo)
	fornecedorSvc := service.NewFornecedorService(fornecedorRepo)
	estoqueSvc := service.NewEstoqueService(produtoRepo, movimentoEstoqueRepo)
	caixaSvc := service.NewCaixaService(caixaRepo, vendaRepo)
	vendaSvc := service.NewVendaService(vendaRepo, caixaSvc, caixaRepo, estoqueSvc, dispatcher)
	devolucaoSvc := service.NewDevolucaoService(devolucaoRepo, vendaRepo, caixaSvc, caixaRepo, estoqueSvc)
	relatorioSvc := service.NewRelatorioService(relatorioRepo, produtoRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	produtosH := handler.NewProdutosHandler(produtoSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	fornecedoresH := handler.NewFornecedoresHandler(fornecedorSvc)
	estoqueH := handler.NewEstoqueHandler(estoqueSvc)
	caixaH := handler.NewCaixaHandler(caixaSvc)
	vendasH := handler.NewVendasHandler(vendaSvc)
	devolucoesH := handler.NewDevolucoesHandler(devolucaoSvc)
	relatoriosH := handler.NewRelatoriosHandler(relatorioSvc, cfg.NomeLoja, cfg.PDFStoragePath)
	consultaH := handler.NewConsultaPrecosHandler(produtoRepo, rdb)
	healthH := handler.NewHealthHandler(db, rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", healthH.Health)
	r.GET("/v1/consulta-precos/:id", consultaH.ConsultarPreco)

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	todos := middleware.RequireRole(middleware.PerfilVendedor, middleware.PerfilGerente, middleware.PerfilAdministrador)
	gerentes := middleware.RequireRole(middleware.PerfilGerente, middleware.PerfilAdministrador)
	admin := middleware.RequireRole(middleware.PerfilAdministrador)

	v1 := r.Group("/v1", jwtMW)
	{
		// Vendas — todo operador autenticado
		v1.POST("/vendas", todos, vendasH.RegistrarVenda)
		v1.GET("/vendas", todos, vendasH.ListarVendas)
		v1.GET("/vendas/:id", todos, vendasH.ObterVenda)
		v1.GET("/vendas/:id/devolucoes", todos, devolucoesH.ListarPorVenda)
		// Cancelamento exige gerente ou administrador
		v1.POST("/vendas/:id/cancelar", gerentes, vendasH.CancelarVenda)

		// Devoluções
		v1.POST("/devolucoes", todos, devolucoesH.RegistrarDevolucao)
		v1.GET("/devolucoes/:id", todos, devolucoesH.ObterDevolucao)

		// Caixa
		caixa := v1.Group("/caixa")
		{
			caixa.POST("/abrir", todos, caixaH.AbrirSessao)
			caixa.POST("/fechar", todos, caixaH.FecharSessao)
			caixa.POST("/movimentos", todos, caixaH.RegistrarMovimento)
			caixa.GET("/sessao", todos, caixaH.SessaoAtual)
			caixa.GET("/sessoes", gerentes, caixaH.ListarSessoes)
			caixa.GET("/sessoes/:id", gerentes, caixaH.RelatorioSessao)
		}

		// Produtos — leitura para todos, escrita para gerentes
		v1.GET("/produtos", todos, produtosH.Listar)
		v1.GET("/produtos/:id", todos, produtosH.Obter)
		v1.GET("/produtos/:id/historico-precos", gerentes, produtosH.HistoricoPrecos)
		v1.POST("/produtos/:id/estoque", gerentes, estoqueH.AjusteManual)
		prods := v1.Group("/produtos", gerentes)
		{
			prods.POST("", produtosH.Criar)
			prods.PUT("/:id", produtosH.Atualizar)
			prods.DELETE("/:id", produtosH.Desativar)
		}

		// Movimentos de estoque
		v1.GET("/estoque/movimentos", gerentes, estoqueH.ListarMovimentos)

		// Categorias — leitura para todos, escrita para gerentes
		v1.GET("/categorias", todos, categoriasH.Listar)
		categorias := v1.Group("/categorias", gerentes)
		{
			categorias.POST("", categoriasH.Criar)
			categorias.PUT("/:id", categoriasH.Atualizar)
			categorias.DELETE("/:id", categoriasH.Desativar)
		}

		// Clientes
		v1.GET("/clientes", todos, clientesH.Listar)
		v1.GET("/clientes/:id", todos, clientesH.Obter)
		v1.POST("/clientes", todos, clientesH.Criar)
		v1.PUT("/clientes/:id", todos, clientesH.Atualizar)
		v1.DELETE("/clientes/:id", gerentes, clientesH.Remover)

		// Fornecedores — gerentes
		forn := v1.Group("/fornecedores", gerentes)
		{
			forn.POST("", fornecedoresH.Criar)
			forn.GET("", fornecedoresH.Listar)
			forn.PUT("/:id", fornecedoresH.Atualizar)
			forn.DELETE("/:id", fornecedoresH.Desativar)
		}

		// Relatórios — gerentes
		rel := v1.Group("/relatorios", gerentes)
		{
			rel.GET("/vendas", relatoriosH.RelatorioVendas)
			rel.GET("/vendas/pdf", relatoriosH.RelatorioVendasPDF)
			rel.GET("/produtos-mais-vendidos", relatoriosH.ProdutosMaisVendidos)
			rel.GET("/estoque-baixo", relatoriosH.EstoqueBaixo)
		}

		// Usuários — administrador
		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", authH.CriarUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.PUT("/:id", authH.AtualizarUsuario)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
