package auth

import (
	"context"
	"fmt"

	"github.com/jhoicas/sippa-api/internal/application/catalog"
	"github.com/jhoicas/sippa-api/internal/application/dto"
	"github.com/jhoicas/sippa-api/internal/domain"
	"github.com/jhoicas/sippa-api/internal/domain/entity"
	"github.com/jhoicas/sippa-api/pkg/jwt"
	"github.com/jhoicas/sippa-api/pkg/logger"
)

// State resultado del gate de autenticación.
type State string

const (
	StateOnline          State = "ONLINE_AUTH"
	StateOffline         State = "OFFLINE_AUTH"
	StateUnauthenticated State = "UNAUTHENTICATED"
)

// SignInResult sesión concedida por el gate. User es nil en modo offline.
type SignInResult struct {
	State   State
	Token   string
	Session entity.Session
	User    *entity.User
	Role    catalog.Role
}

// Gate decide entre verificación remota y la credencial local según la conectividad.
type Gate struct {
	probe  Connectivity
	remote RemoteAuthenticator
	store  CredentialStore
	roles  *catalog.RoleResolver
	jwtCfg JWTConfig
	log    *logger.Logger
}

// NewGate construye el gate.
func NewGate(probe Connectivity, remote RemoteAuthenticator, store CredentialStore, roles *catalog.RoleResolver, jwtCfg JWTConfig, log *logger.Logger) *Gate {
	if log == nil {
		log = logger.Nop()
	}
	return &Gate{probe: probe, remote: remote, store: store, roles: roles, jwtCfg: jwtCfg, log: log}
}

// SignIn con conexión verifica contra el backend y reemplaza la credencial local;
// sin conexión solo acepta el email de la última sesión online (sin contraseña).
// Offline no distingue "email distinto" de "sin credencial": ambos son
// domain.ErrNoCachedSession, que también es domain.ErrUnauthenticated.
func (g *Gate) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	if g.probe.IsOnline(ctx) {
		return g.signInOnline(ctx, email, password)
	}
	return g.signInOffline(ctx, email)
}

func (g *Gate) signInOnline(ctx context.Context, email, password string) (*SignInResult, error) {
	user, err := g.remote.SignIn(ctx, email, password)
	if err != nil {
		return &SignInResult{State: StateUnauthenticated}, err
	}
	// Se guarda el email verificado, no el tecleado: la búsqueda remota ignora mayúsculas.
	if err := g.store.SetCredential(ctx, user.Email); err != nil {
		g.log.Warn().Err(err).Msg("no se pudo guardar la credencial local; el login offline no estará disponible")
	}
	sess := entity.Session{UserID: user.ID, Email: user.Email}
	token, err := jwt.Generate(g.jwtCfg.Secret, sess.UserID, sess.Email, g.jwtCfg.Issuer, g.jwtCfg.ExpMinutes, false)
	if err != nil {
		return nil, err
	}
	return &SignInResult{
		State:   StateOnline,
		Token:   token,
		Session: sess,
		User:    user,
		Role:    g.roles.Resolve(ctx, &sess),
	}, nil
}

func (g *Gate) signInOffline(ctx context.Context, email string) (*SignInResult, error) {
	ok, err := g.store.MatchesCredential(ctx, email)
	if err != nil {
		g.log.Warn().Err(err).Msg("no se pudo leer la credencial local")
		ok = false
	}
	if !ok {
		return &SignInResult{State: StateUnauthenticated}, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, domain.ErrNoCachedSession)
	}
	sess := entity.Session{Email: email, Offline: true}
	token, err := jwt.Generate(g.jwtCfg.Secret, "", email, g.jwtCfg.Issuer, g.jwtCfg.ExpMinutes, true)
	if err != nil {
		return nil, err
	}
	g.log.Info().Str("email", email).Msg("login offline con credencial local")
	return &SignInResult{
		State:   StateOffline,
		Token:   token,
		Session: sess,
		Role:    g.roles.Resolve(ctx, &sess),
	}, nil
}

// HasCachedSession indica si existe una credencial local (guardas de ruta).
func (g *Gate) HasCachedSession(ctx context.Context) (bool, error) {
	return g.store.HasCredential(ctx)
}

// Online sondeo de conectividad actual.
func (g *Gate) Online(ctx context.Context) bool {
	return g.probe.IsOnline(ctx)
}

// SignOut cierra la sesión. Los tokens no tienen estado y la credencial local se conserva.
func (g *Gate) SignOut(_ context.Context, s *entity.Session) {
	if s != nil {
		g.log.Info().Str("email", s.Email).Bool("offline", s.Offline).Msg("sesión cerrada")
	}
}

// LoginResponse mapea el resultado al cuerpo HTTP.
func LoginResponse(r *SignInResult) *dto.LoginResponse {
	out := &dto.LoginResponse{State: string(r.State), Token: r.Token}
	if r.User != nil {
		out.User = toUserResponse(r.User, string(r.Role))
	}
	return out
}
