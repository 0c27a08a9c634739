package usecase

import "context"

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

type healthUsecase struct {
	emailProvider func() string
	redisCheck    func(ctx context.Context) error
}

// NewHealthUsecase reports the email provider in use and whether Redis answers.
// redisCheck may be nil when Redis is not configured.
func NewHealthUsecase(emailProvider func() string, redisCheck func(ctx context.Context) error) HealthUsecase {
	return &healthUsecase{
		emailProvider: emailProvider,
		redisCheck:    redisCheck,
	}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	status := map[string]string{
		"status": "ok",
		"email":  u.emailProvider(),
		"redis":  "disabled",
	}
	if u.redisCheck != nil {
		if err := u.redisCheck(ctx); err != nil {
			status["redis"] = "unavailable"
		} else {
			status["redis"] = "ok"
		}
	}
	return status
}
