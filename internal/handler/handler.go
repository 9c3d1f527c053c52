package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/shift-market/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-market/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-market/backend/internal/repository"
)

type Handler struct {
	validate     *validator.Validate
	config       *config.Config
	repository   *repository.Repository
	translator   ut.Translator
	eventChannel *amqp.Channel
	redisClient  *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, eventCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:     validate,
		config:       cfg,
		repository:   repo,
		translator:   trans,
		eventChannel: eventCh,
		redisClient:  rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.With(h.myInfo).Get("/my-info", h.GetMyInfo)
		r.With(h.myInfo).Patch("/my-info/password", h.UpdateMyPassword)
		r.With(h.myInfo).Get("/my-applications", h.GetMyApplications)

		r.With(h.RequiredRole([]domain.Role{domain.RoleAdmin})).Post("/users", h.CreateUser)

		r.Route("/shifts", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RoleVenue})).Post("/", h.CreateShift)
			r.Get("/", h.GetShiftFeed) // 求职信息流，所有登录用户可见
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.shiftCtx)
				r.Get("/", h.GetShift)
				r.With(h.RequiredRole([]domain.Role{domain.RoleVenue})).Patch("/status", h.TransitionShift)
				r.With(h.RequiredRole([]domain.Role{domain.RoleVenue, domain.RoleProfessional})).Post("/cancel", h.CancelShift)
				r.With(h.RequiredRole([]domain.Role{domain.RoleVenue})).Post("/recurrences", h.GenerateRecurrences)
				r.Get("/series", h.GetShiftSeries)
				r.With(h.RequiredRole([]domain.Role{domain.RoleVenue})).Get("/applications", h.GetShiftApplications)
				r.With(h.RequiredRole([]domain.Role{domain.RoleProfessional})).Post("/applications", h.ApplyToShift)
				r.With(h.RequiredRole([]domain.Role{domain.RoleVenue})).Get("/waitlist", h.GetShiftWaitlist)
				r.With(h.RequiredRole([]domain.Role{domain.RoleProfessional})).Post("/waitlist", h.JoinWaitlist)
			})
		})

		r.Route("/applications/{id}", func(r chi.Router) {
			r.Use(h.applicationCtx)
			r.With(h.RequiredRole([]domain.Role{domain.RoleVenue})).Post("/decision", h.DecideApplication)
			r.With(h.RequiredRole([]domain.Role{domain.RoleProfessional})).Post("/withdraw", h.WithdrawApplication)
		})

		r.Route("/waitlist-entries/{id}", func(r chi.Router) {
			r.Use(h.waitlistEntryCtx)
			r.With(h.RequiredRole([]domain.Role{domain.RoleProfessional})).Delete("/", h.LeaveWaitlist)
		})
	})
}
