package fakestore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mishcolife/catalogadmin/internal/domain/entities"
)

type requestKey struct{}

func withRequest(r *http.Request, rec Request) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), requestKey{}, rec))
}

func requestFrom(r *http.Request) Request {
	rec, _ := r.Context().Value(requestKey{}).(Request)
	return rec
}

func readUploads(r *http.Request) []Upload {
	var out []Upload
	fields := make([]string, 0, len(r.MultipartForm.File))
	for field := range r.MultipartForm.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		for _, fh := range r.MultipartForm.File[field] {
			f, err := fh.Open()
			if err != nil {
				continue
			}
			data, _ := io.ReadAll(f)
			f.Close()
			out = append(out, Upload{
				Field:       field,
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Data:        data,
			})
		}
	}
	return out
}

func (rec Request) value(name string) string {
	if v := rec.Values[name]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func (rec Request) uploads(field string) []Upload {
	var out []Upload
	for _, u := range rec.Uploads {
		if u.Field == field {
			out = append(out, u)
		}
	}
	return out
}

// storeUpload must be called with s.mu held
func (s *Store) storeUpload(u Upload) entities.AttachmentRef {
	s.uploads++
	return entities.AttachmentRef(fmt.Sprintf("/uploads/%d-%s", s.uploads, u.Filename))
}

func (s *Store) listProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]entities.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "count": len(out), "data": out})
}

func (s *Store) createProduct(w http.ResponseWriter, r *http.Request) {
	rec := requestFrom(r)
	p := &entities.Product{}
	if err := applyProductForm(p, rec); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
		return
	}
	if strings.TrimSpace(p.ProductName) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Product name is required"})
		return
	}

	s.mu.Lock()
	for _, existing := range s.products {
		if strings.EqualFold(existing.ProductName, p.ProductName) {
			s.mu.Unlock()
			writeJSON(w, http.StatusConflict, map[string]any{"success": false, "message": "Product already exists"})
			return
		}
	}
	p.ID = uuid.NewString()
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	for _, u := range rec.uploads(entities.FieldProductImages) {
		p.Images = append(p.Images, s.storeUpload(u))
	}
	s.products[p.ID] = p
	out := *p
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "message": "Product added successfully", "product": out})
}

func (s *Store) updateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec := requestFrom(r)

	s.mu.Lock()
	p, ok := s.products[id]
	if !ok {
		s.mu.Unlock()
		notFound(w, "product", id)
		return
	}
	updated := *p
	if err := applyProductForm(&updated, rec); err != nil {
		s.mu.Unlock()
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
		return
	}

	var kept []entities.AttachmentRef
	if raw := rec.value(entities.FieldExistingImages); raw != "" {
		if err := json.Unmarshal([]byte(raw), &kept); err != nil {
			s.mu.Unlock()
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "existingImages must be a JSON array"})
			return
		}
	}
	for _, u := range rec.uploads(entities.FieldProductImages) {
		kept = append(kept, s.storeUpload(u))
	}
	updated.Images = kept
	updated.UpdatedAt = s.now()
	s.products[id] = &updated
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Product updated successfully", "product": updated})
}

func (s *Store) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	_, ok := s.products[id]
	delete(s.products, id)
	s.mu.Unlock()
	if !ok {
		notFound(w, "product", id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Product deleted successfully"})
}

func applyProductForm(p *entities.Product, rec Request) error {
	for _, name := range entities.ScalarFieldOrder {
		vals, ok := rec.Values[name]
		if !ok || len(vals) == 0 {
			continue
		}
		v := vals[0]
		switch name {
		case entities.FieldProductName:
			p.ProductName = v
		case entities.FieldGenericName:
			p.GenericName = v
		case entities.FieldBrandName:
			p.BrandName = v
		case entities.FieldStrength:
			p.Strength = v
		case entities.FieldDosageForm:
			p.DosageForm = v
		case entities.FieldAdministrationRoute:
			p.AdministrationRoute = v
		case entities.FieldPackSize:
			p.PackSize = v
		case entities.FieldMRP:
			p.MRP = entities.FlexString(v)
		case entities.FieldStorage:
			p.Storage = v
		case entities.FieldColor:
			p.Color = v
		case entities.FieldCategory:
			p.Category = entities.CategoryRef{ID: v}
		case entities.FieldPrescriptionRequired, entities.FieldIsFeatured:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s must be true or false", name)
			}
			if name == entities.FieldIsFeatured {
				p.IsFeatured = &b
			} else {
				p.PrescriptionRequired = &b
			}
		}
	}

	lists := []struct {
		name string
		out  any
	}{
		{entities.FieldComposition, &p.Composition},
		{entities.FieldMechanismOfAction, &p.MechanismOfAction},
		{entities.FieldUses, &p.Uses},
		{entities.FieldIndications, &p.Indications},
		{entities.FieldContraindications, &p.Contraindications},
	}
	for _, l := range lists {
		raw := rec.value(l.name)
		if raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(raw), l.out); err != nil {
			return fmt.Errorf("%s must be a JSON array", l.name)
		}
	}
	return nil
}

func (s *Store) listCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]entities.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, *c)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": out})
}

func categoryName(rec Request) string {
	name, _ := rec.JSON["name"].(string)
	return strings.TrimSpace(name)
}

func (s *Store) createCategory(w http.ResponseWriter, r *http.Request) {
	name := categoryName(requestFrom(r))
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Category name is required"})
		return
	}

	s.mu.Lock()
	for _, c := range s.categories {
		if strings.EqualFold(c.Name, name) {
			s.mu.Unlock()
			// the store reports duplicates with a 200 and success:false
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Category already exists"})
			return
		}
	}
	c := &entities.Category{ID: uuid.NewString(), Name: name, CreatedAt: s.now()}
	s.categories[c.ID] = c
	out := *c
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "message": "Category added successfully", "category": out})
}

func (s *Store) updateCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	name := categoryName(requestFrom(r))
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Category name is required"})
		return
	}

	s.mu.Lock()
	c, ok := s.categories[id]
	if !ok {
		s.mu.Unlock()
		notFound(w, "category", id)
		return
	}
	c.Name = name
	out := *c
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Category updated successfully", "category": out})
}

func (s *Store) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	_, ok := s.categories[id]
	delete(s.categories, id)
	s.mu.Unlock()
	if !ok {
		notFound(w, "category", id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Category deleted successfully"})
}

func (s *Store) listBlogs(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]entities.BlogPost, 0, len(s.blogs))
	for _, b := range s.blogs {
		out = append(out, *b)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	writeJSON(w, http.StatusOK, map[string]any{"posts": out, "total": len(out)})
}

func (s *Store) updateBlog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec := requestFrom(r)

	s.mu.Lock()
	b, ok := s.blogs[id]
	if !ok {
		s.mu.Unlock()
		notFound(w, "blog", id)
		return
	}
	updated := *b
	if v, ok := rec.Values["title"]; ok && len(v) > 0 {
		updated.Title = v[0]
	}
	if v, ok := rec.Values["description"]; ok && len(v) > 0 {
		updated.Description = v[0]
	}
	if v, ok := rec.Values["senderName"]; ok && len(v) > 0 {
		updated.SenderName = v[0]
	}
	if ups := rec.uploads("imageUrl"); len(ups) > 0 {
		updated.ImageURL = s.storeUpload(ups[0])
	}
	if ups := rec.uploads("senderPhoto"); len(ups) > 0 {
		updated.SenderPhoto = s.storeUpload(ups[0])
	}
	s.blogs[id] = &updated
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Blog updated successfully", "post": updated})
}

func (s *Store) deleteBlog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	_, ok := s.blogs[id]
	delete(s.blogs, id)
	s.mu.Unlock()
	if !ok {
		notFound(w, "blog", id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Blog deleted successfully"})
}

func (s *Store) listContacts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]entities.ContactMessage, 0, len(s.contacts))
	for _, c := range s.contacts {
		out = append(out, *c)
	}
	s.mu.Unlock()

	// oldest first, as the real store does
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "count": len(out), "data": out})
}

func (s *Store) deleteContact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	_, ok := s.contacts[id]
	delete(s.contacts, id)
	s.mu.Unlock()
	if !ok {
		notFound(w, "contact", id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Message deleted successfully"})
}
