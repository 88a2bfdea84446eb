package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"csdash/internal/config"
	"csdash/internal/db"
	"csdash/internal/models"
	"csdash/internal/notes"
	"csdash/internal/validation"
)

// NotesHandler handles overview notes and help articles.
type NotesHandler struct {
	store notes.Store
	cfg   *config.Config
}

// NewNotesHandler creates a new notes handler.
func NewNotesHandler(store notes.Store, cfg *config.Config) *NotesHandler {
	return &NotesHandler{store: store, cfg: cfg}
}

// Index renders the notes library, filtered by the q query parameter.
func (h *NotesHandler) Index(c fiber.Ctx) error {
	return h.renderIndex(c, fiber.StatusOK, fiber.Map{})
}

// CreateNote saves a new note.
func (h *NotesHandler) CreateNote(c fiber.Ctx) error {
	title := strings.TrimSpace(c.FormValue("title"))
	body := strings.TrimSpace(c.FormValue("body"))
	tags := c.FormValue("tags")

	if valid, msg := validation.ValidateNote(title, body); !valid {
		return h.renderIndex(c, fiber.StatusUnprocessableEntity, fiber.Map{
			"NoteError": msg,
			"NoteForm":  fiber.Map{"Title": title, "Tags": tags, "Body": body},
		})
	}

	n := &models.Note{Title: title, Tags: validation.ParseTags(tags), Body: body}
	if err := h.store.CreateNote(c.Context(), n); err != nil {
		return err
	}
	return c.Redirect().To("/notes?saved=note")
}

// DeleteNote removes a note.
func (h *NotesHandler) DeleteNote(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid note id")
	}
	if err := h.store.DeleteNote(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrNoteNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "note not found")
		}
		return err
	}
	return c.Redirect().To("/notes")
}

// CreateArticle saves a new help article.
func (h *NotesHandler) CreateArticle(c fiber.Ctx) error {
	title := strings.TrimSpace(c.FormValue("title"))
	category := strings.TrimSpace(c.FormValue("category"))
	body := strings.TrimSpace(c.FormValue("body"))

	if valid, msg := validation.ValidateNote(title, body); !valid {
		return h.renderIndex(c, fiber.StatusUnprocessableEntity, fiber.Map{
			"ArticleError": msg,
			"ArticleForm":  fiber.Map{"Title": title, "Category": category, "Body": body},
		})
	}

	a := &models.HelpArticle{Title: title, Category: category, Body: body}
	if err := h.store.CreateHelpArticle(c.Context(), a); err != nil {
		return err
	}
	return c.Redirect().To("/notes?saved=article")
}

// DeleteArticle removes a help article.
func (h *NotesHandler) DeleteArticle(c fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid article id")
	}
	if err := h.store.DeleteHelpArticle(c.Context(), id); err != nil {
		if errors.Is(err, db.ErrHelpArticleNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "help article not found")
		}
		return err
	}
	return c.Redirect().To("/notes")
}

// Export downloads every note and article as JSON.
func (h *NotesHandler) Export(c fiber.Ctx) error {
	data, err := notes.Export(c.Context(), h.store)
	if err != nil {
		return err
	}
	c.Attachment(notes.ExportFileName)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(data)
}

// Import adds the content of an uploaded export in front of the library.
func (h *NotesHandler) Import(c fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return h.renderIndex(c, fiber.StatusBadRequest, fiber.Map{"ImportError": "Vælg en JSON-fil at importere."})
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	n, a, err := notes.Import(c.Context(), h.store, f)
	if errors.Is(err, notes.ErrInvalidImport) {
		slog.Warn("rejected notes import", "file", fh.Filename, "error", err)
		return h.renderIndex(c, fiber.StatusUnprocessableEntity, fiber.Map{
			"ImportError": "Kunne ikke importere filen. Tjek at det er en gyldig JSON-export.",
		})
	}
	if err != nil {
		return err
	}
	return c.Redirect().To(fmt.Sprintf("/notes?imported=%d", n+a))
}

func (h *NotesHandler) renderIndex(c fiber.Ctx, status int, data fiber.Map) error {
	allNotes, err := h.store.ListNotes(c.Context())
	if err != nil {
		return err
	}
	allArticles, err := h.store.ListHelpArticles(c.Context())
	if err != nil {
		return err
	}

	q := c.Query("q")
	data["Query"] = q
	data["Notes"] = notes.FilterNotes(allNotes, q)
	data["Articles"] = notes.FilterHelpArticles(allArticles, q)
	data["NoteCount"] = len(allNotes)
	data["ArticleCount"] = len(allArticles)
	data["Saved"] = c.Query("saved")
	data["Imported"] = c.Query("imported")

	return c.Status(status).Render("notes", pageData(c, h.cfg, data))
}
