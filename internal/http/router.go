package http

import (
	"net/http"
	"strings"
)

// RouterConfig wires the handlers and middleware into a single mux.
// Protect wraps every route except POST /login; leave it nil to expose
// the whole API without authentication, for example in tests.
type RouterConfig struct {
	Auth       *AuthHandler
	Badges     *BadgeHandler
	Sessions   *SessionHandler
	Holidays   *HolidayHandler
	Plans      *PlanHandler
	Protect    func(http.Handler) http.Handler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	protect := cfg.Protect
	if protect == nil {
		protect = func(next http.Handler) http.Handler { return next }
	}
	guarded := func(fn http.HandlerFunc) http.Handler { return protect(fn) }

	if cfg.Auth != nil {
		mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.Login(w, r)
		})
		mux.Handle("/logout", guarded(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.Logout(w, r)
		}))
	}

	if cfg.Badges != nil {
		mux.Handle("/badges", guarded(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Badges.List(w, r)
			case http.MethodPost:
				cfg.Badges.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		}))
		mux.Handle("/badges/", guarded(func(w http.ResponseWriter, r *http.Request) {
			rest := strings.TrimPrefix(r.URL.Path, "/badges/")
			if rest == "" {
				http.NotFound(w, r)
				return
			}
			if name, ok := strings.CutSuffix(rest, "/complete"); ok {
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				cfg.Badges.Complete(w, r, name)
				return
			}
			if name, ok := strings.CutSuffix(rest, "/reopen"); ok {
				if r.Method != http.MethodPost {
					methodNotAllowed(w, http.MethodPost)
					return
				}
				cfg.Badges.Reopen(w, r, name)
				return
			}
			switch r.Method {
			case http.MethodGet:
				cfg.Badges.Get(w, r, rest)
			case http.MethodPut:
				cfg.Badges.Update(w, r, rest)
			case http.MethodDelete:
				cfg.Badges.Delete(w, r, rest)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
			}
		}))
	}

	if cfg.Sessions != nil {
		mux.Handle("/sessions", guarded(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Sessions.List(w, r)
			case http.MethodPost:
				cfg.Sessions.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		}))
		mux.Handle("/sessions/", guarded(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/sessions/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			switch r.Method {
			case http.MethodGet:
				cfg.Sessions.Get(w, r, id)
			case http.MethodDelete:
				cfg.Sessions.Delete(w, r, id)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodDelete)
			}
		}))
	}

	if cfg.Holidays != nil {
		mux.Handle("/holidays", guarded(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Holidays.List(w, r)
			case http.MethodPost:
				cfg.Holidays.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		}))
		mux.Handle("/holidays/", guarded(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/holidays/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			switch r.Method {
			case http.MethodGet:
				cfg.Holidays.Get(w, r, id)
			case http.MethodDelete:
				cfg.Holidays.Delete(w, r, id)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodDelete)
			}
		}))
	}

	if cfg.Plans != nil {
		mux.Handle("/plans", guarded(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Plans.Generate(w, r)
		}))
		mux.Handle("/plans/commit", guarded(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Plans.Commit(w, r)
		}))
	}

	var handler http.Handler = mux
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
