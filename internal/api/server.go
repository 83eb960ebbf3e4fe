// Package api exposes the registry operations over HTTP. It is an
// alternative front end to the console menu and drives the exact same
// registry surface.
package api

import (
	"context"
	"net/http"
	"os"

	"github.com/gofiber/fiber/v2"

	"campusreg/internal/registry"
	"campusreg/pkg/errors"
	"campusreg/pkg/logger"
)

func NewServer(cfg Config, log logger.Logger, reg *registry.Registry, store registry.Store) Server {
	serveLog := log.With("api_http_server")

	fiberCfg := fiber.Config{
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		DisableStartupMessage: true,
	}

	fiberCfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
		serveLog.Warn(errors.WrapFail(err, "handle http request"))
		return c.Status(http.StatusInternalServerError).Send(nil)
	}

	s := &server{
		reg:   reg,
		store: store,
		http:  fiber.New(fiberCfg),
		addr:  cfg.HTTP.Addr,
		log:   serveLog,
	}

	s.setupRoutes()

	return s
}

type server struct {
	reg   *registry.Registry
	store registry.Store
	http  *fiber.App
	addr  string
	log   logger.Logger
}

func (s *server) Serve(ctx context.Context) error {
	errCh := make(chan error)
	go func() { errCh <- s.http.Listen(s.addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return errors.Error("serve context done")
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return errors.WrapFail(s.http.ShutdownWithContext(ctx), "shutdown http server")
}

func (s *server) setupRoutes() {
	s.http.Post("/students", s.handleAddStudent)
	s.http.Get("/students/:id", s.handleGetStudent)
	s.http.Post("/courses", s.handleAddCourse)
	s.http.Get("/courses/:code", s.handleGetCourse)
	s.http.Post("/enrollments", s.handleEnroll)
	s.http.Post("/grades", s.handleGrade)
	s.http.Post("/save", s.handleSave)
	s.http.Post("/load", s.handleLoad)
}

type studentPayload struct {
	Name    string `json:"name"`
	Age     int    `json:"age"`
	Address string `json:"address"`
	ID      string `json:"student_id"`
}

func (s *server) handleAddStudent(c *fiber.Ctx) error {
	var data studentPayload
	err := c.BodyParser(&data)
	if err != nil {
		s.log.Warn(errors.WrapFail(err, "unmarshal student payload"))
		return s.sendError(c, http.StatusBadRequest, "bad json")
	}

	student, err := s.reg.AddStudent(data.Name, data.Age, data.Address, data.ID)
	if err != nil {
		return s.sendOpError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(student)
}

func (s *server) handleGetStudent(c *fiber.Ctx) error {
	student, err := s.reg.Student(c.Params("id"))
	if err != nil {
		return s.sendOpError(c, err)
	}

	return c.Status(http.StatusOK).JSON(student)
}

type coursePayload struct {
	Name       string `json:"course_name"`
	Code       string `json:"course_code"`
	Instructor string `json:"instructor"`
}

func (s *server) handleAddCourse(c *fiber.Ctx) error {
	var data coursePayload
	err := c.BodyParser(&data)
	if err != nil {
		s.log.Warn(errors.WrapFail(err, "unmarshal course payload"))
		return s.sendError(c, http.StatusBadRequest, "bad json")
	}

	course, err := s.reg.AddCourse(data.Name, data.Code, data.Instructor)
	if err != nil {
		return s.sendOpError(c, err)
	}

	return c.Status(http.StatusCreated).JSON(course)
}

func (s *server) handleGetCourse(c *fiber.Ctx) error {
	course, err := s.reg.Course(c.Params("code"))
	if err != nil {
		return s.sendOpError(c, err)
	}

	return c.Status(http.StatusOK).JSON(course)
}

type enrollmentPayload struct {
	StudentID  string `json:"student_id"`
	CourseCode string `json:"course_code"`
	Grade      string `json:"grade"`
}

func (s *server) handleEnroll(c *fiber.Ctx) error {
	var data enrollmentPayload
	err := c.BodyParser(&data)
	if err != nil {
		s.log.Warn(errors.WrapFail(err, "unmarshal enrollment payload"))
		return s.sendError(c, http.StatusBadRequest, "bad json")
	}

	err = s.reg.Enroll(data.StudentID, data.CourseCode)
	if err != nil {
		return s.sendOpError(c, err)
	}

	return c.Status(http.StatusOK).Send(nil)
}

func (s *server) handleGrade(c *fiber.Ctx) error {
	var data enrollmentPayload
	err := c.BodyParser(&data)
	if err != nil {
		s.log.Warn(errors.WrapFail(err, "unmarshal grade payload"))
		return s.sendError(c, http.StatusBadRequest, "bad json")
	}

	err = s.reg.SetGrade(data.StudentID, data.CourseCode, data.Grade)
	if err != nil {
		return s.sendOpError(c, err)
	}

	return c.Status(http.StatusOK).Send(nil)
}

func (s *server) handleSave(c *fiber.Ctx) error {
	err := s.reg.Save(c.Context(), s.store)
	if err != nil {
		return errors.WrapFail(err, "save registry")
	}

	return c.Status(http.StatusOK).Send(nil)
}

func (s *server) handleLoad(c *fiber.Ctx) error {
	err := s.reg.Load(c.Context(), s.store)
	if err != nil {
		return s.sendOpError(c, err)
	}

	return c.Status(http.StatusOK).Send(nil)
}

func (s *server) sendOpError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, registry.ErrNotFound), errors.Is(err, os.ErrNotExist):
		return s.sendError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, registry.ErrDuplicate):
		return s.sendError(c, http.StatusConflict, err.Error())
	case errors.Is(err, registry.ErrNotEnrolled):
		return s.sendError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		// falls through to the fiber error handler
		return err
	}
}

func (s *server) sendError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(map[string]string{"status": "ERROR", "message": msg})
}
