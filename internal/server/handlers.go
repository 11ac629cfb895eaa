package server

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/blackwell-systems/devstreaks/internal/platform"
	"github.com/blackwell-systems/devstreaks/internal/store"
)

var errNoUsernames = errors.New("no usernames given and no profile saved")

func (s *Server) health(c *fiber.Ctx) error {
	return success(c, fiber.Map{"status": "ok"})
}

// getReport returns the report of one platform user.
func (s *Server) getReport(c *fiber.Ctx) error {
	p, err := platform.Parse(c.Params("platform"))
	if err != nil {
		return err
	}
	r, err := s.svc.Report(c.UserContext(), p, c.Params("username"))
	if err != nil {
		return err
	}
	return success(c, r)
}

// getDashboard reports every platform at once. Usernames come from the
// query string, falling back to the saved profile when none are given.
func (s *Server) getDashboard(c *fiber.Ctx) error {
	usernames := map[platform.Platform]string{
		platform.GitHub:   strings.TrimSpace(c.Query("github")),
		platform.LeetCode: strings.TrimSpace(c.Query("leetcode")),
	}
	if usernames[platform.GitHub] == "" && usernames[platform.LeetCode] == "" {
		prof, err := s.profiles.GetProfile(c.Query("profile", store.DefaultProfile))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		if prof.IsEmpty() {
			return fiber.NewError(fiber.StatusBadRequest, errNoUsernames.Error())
		}
		usernames[platform.GitHub] = prof.GitHub
		usernames[platform.LeetCode] = prof.LeetCode
	}

	return success(c, s.svc.Dashboard(c.UserContext(), usernames))
}

func (s *Server) getProfile(c *fiber.Ctx) error {
	prof, err := s.profiles.GetProfile(c.Query("name", store.DefaultProfile))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return success(c, prof)
}

type profileRequest struct {
	GitHub   string `json:"github"`
	LeetCode string `json:"leetcode"`
}

// putProfile replaces the saved usernames.
func (s *Server) putProfile(c *fiber.Ctx) error {
	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	prof, err := s.profiles.SaveProfile(store.Profile{
		Name:     c.Query("name", store.DefaultProfile),
		GitHub:   req.GitHub,
		LeetCode: req.LeetCode,
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return success(c, prof)
}

func (s *Server) getRepos(c *fiber.Ctx) error {
	repos, err := s.svc.Repos(c.UserContext(), c.Params("username"))
	if err != nil {
		return err
	}
	return success(c, repos)
}
