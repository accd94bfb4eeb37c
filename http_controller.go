package auth

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/wheretogonext/go-auth/middleware/jwtware"
)

// RegisterAuthRoutes mounts the auth endpoints on a group under the
// configured prefix.
func RegisterAuthRoutes(app fiber.Router, controller *AuthController) fiber.Router {
	group := app.Group(controller.Prefix)

	group.Post(controller.Routes.Register, controller.Register).Name("auth.register")
	group.Post(controller.Routes.Login, controller.Login).Name("auth.login")
	group.Post(controller.Routes.Google, controller.Google).Name("auth.google")
	group.Get(controller.Routes.Me, controller.Protected(), controller.Me).Name("auth.me")

	return group
}

type AuthControllerRoutes struct {
	Register string
	Login    string
	Google   string
	Me       string
}

// AuthController serves the JSON auth endpoints
type AuthController struct {
	Debug         bool
	Development   bool
	Prefix        string
	Logger        Logger
	Resolver      *IdentityResolver
	Routes        *AuthControllerRoutes
	ErrorMessages ErrorMessages
}

// ErrorMessages are the generic messages used when a failure has no client
// safe message of its own
type ErrorMessages struct {
	Register string
	Login    string
	Google   string
	Me       string
	Storage  string
	Database string
}

type AuthControllerOption func(*AuthController) *AuthController

// WithControllerLogger sets the controller logger
func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(a *AuthController) *AuthController {
		if logger != nil {
			a.Logger = logger
		}
		return a
	}
}

// WithRoutes overrides the endpoint paths
func WithRoutes(routes AuthControllerRoutes) AuthControllerOption {
	return func(a *AuthController) *AuthController {
		a.Routes = &routes
		return a
	}
}

// NewAuthController builds a controller, cfg supplies the route prefix and
// the development and debug switches.
func NewAuthController(resolver *IdentityResolver, cfg Config, opts ...AuthControllerOption) *AuthController {
	if resolver == nil {
		panic("Missing IdentityResolver in auth controller...")
	}

	c := &AuthController{
		Logger:   defLogger{},
		Resolver: resolver,
		Routes: &AuthControllerRoutes{
			Register: "/register",
			Login:    "/login",
			Google:   "/google",
			Me:       "/me",
		},
		ErrorMessages: ErrorMessages{
			Register: "Sign up failed. Try again.",
			Login:    "Log in failed. Try again.",
			Google:   "Sign-in failed. Try again.",
			Me:       "Could not load account. Try again.",
			Storage:  "Database error. Try again.",
			Database: "Database unavailable.",
		},
	}

	if cfg != nil {
		c.Prefix = cfg.GetRoutePrefix()
		c.Debug = cfg.IsDebug()
		c.Development = cfg.IsDevelopment()
	}

	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

type authResponse struct {
	User  PublicAccount `json:"user"`
	Token string        `json:"token"`
}

type accountResponse struct {
	User PublicAccount `json:"user"`
}

// Register handles POST /register
func (a *AuthController) Register(c *fiber.Ctx) error {
	scope := errorScope{fallback: a.ErrorMessages.Register, storage: a.ErrorMessages.Storage}

	if !a.Resolver.Configured() {
		return a.writeError(c, ErrMisconfigured, scope)
	}

	payload := new(RegisterInput)
	if err := a.bind(c, payload); err != nil {
		return a.writeError(c, err, scope)
	}

	a.debugPayload("register", RegisterInput{
		Email:    payload.Email,
		Username: payload.Username,
		Name:     payload.Name,
		Password: redacted(payload.Password),
	})

	res, err := a.Resolver.Register(c.UserContext(), *payload)
	if err != nil {
		return a.writeError(c, err, scope)
	}

	return a.respond(c, fiber.StatusCreated, authResponse{User: res.Account.Public(), Token: res.Token})
}

// Login handles POST /login
func (a *AuthController) Login(c *fiber.Ctx) error {
	scope := errorScope{fallback: a.ErrorMessages.Login, storage: a.ErrorMessages.Storage}

	if !a.Resolver.Configured() {
		return a.writeError(c, ErrMisconfigured, scope)
	}

	payload := new(LoginInput)
	if err := a.bind(c, payload); err != nil {
		return a.writeError(c, err, scope)
	}

	a.debugPayload("login", LoginInput{Identifier: payload.Identifier, Password: redacted(payload.Password)})

	res, err := a.Resolver.Login(c.UserContext(), payload.Identifier, payload.Password)
	if err != nil {
		return a.writeError(c, err, scope)
	}

	return a.respond(c, fiber.StatusOK, authResponse{User: res.Account.Public(), Token: res.Token})
}

// Google handles POST /google, credential is a Google access token
func (a *AuthController) Google(c *fiber.Ctx) error {
	scope := errorScope{fallback: a.ErrorMessages.Google, storage: a.ErrorMessages.Database}

	if !a.Resolver.Configured() {
		return a.writeError(c, ErrMisconfigured, scope)
	}

	payload := new(ExternalLoginInput)
	if err := a.bind(c, payload); err != nil {
		return a.writeError(c, err, scope)
	}

	a.debugPayload("google", ExternalLoginInput{Credential: redacted(payload.Credential)})

	res, err := a.Resolver.LoginWithExternalToken(c.UserContext(), payload.Credential)
	if err != nil {
		return a.writeError(c, err, scope)
	}

	return a.respond(c, fiber.StatusOK, authResponse{User: res.Account.Public(), Token: res.Token})
}

// Protected verifies the bearer token before the wrapped handler runs
func (a *AuthController) Protected() fiber.Handler {
	scope := errorScope{fallback: a.ErrorMessages.Me, storage: a.ErrorMessages.Storage}

	return jwtware.New(jwtware.Config{
		Verifier: jwtware.VerifierFunc(func(token string) (string, error) {
			if !a.Resolver.Configured() {
				return "", ErrMisconfigured
			}
			return a.Resolver.Tokens().Verify(token)
		}),
		SuccessHandler: func(c *fiber.Ctx) error {
			c.SetUserContext(WithAccountIDContext(c.UserContext(), jwtware.AccountID(c)))
			return c.Next()
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if goerrors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
				err = ErrInvalidToken
			}
			return a.writeError(c, err, scope)
		},
	})
}

// Me handles GET /me
func (a *AuthController) Me(c *fiber.Ctx) error {
	scope := errorScope{fallback: a.ErrorMessages.Me, storage: a.ErrorMessages.Storage}

	accountID, _ := AccountIDFromContext(c.UserContext())

	account, err := a.Resolver.AccountByID(c.UserContext(), accountID)
	if err != nil {
		return a.writeError(c, err, scope)
	}

	return a.respond(c, fiber.StatusOK, accountResponse{User: account.Public()})
}

func (a *AuthController) bind(c *fiber.Ctx, payload any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(payload); err != nil {
		a.Logger.Debug("request body rejected", "path", c.Path(), "error", err)
		return NewValidationError("Invalid request body.")
	}
	return nil
}

func (a *AuthController) debugPayload(name string, payload any) {
	if !a.Debug {
		return
	}
	fmt.Printf("======= AUTH %s ======\n", name)
	fmt.Println(print.MaybePrettyJSON(payload))
	fmt.Println("=========================")
}

func redacted(secret string) string {
	if secret == "" {
		return ""
	}
	return "[REDACTED]"
}
