package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Simplici0/fabricalc/internal/costmodel"
	"github.com/Simplici0/fabricalc/internal/display"
	"github.com/Simplici0/fabricalc/internal/form"
	"github.com/Simplici0/fabricalc/internal/logging"
	"github.com/Simplici0/fabricalc/internal/pricing"
)

type baseViewData struct {
	Active         string
	ErrorMessage   string
	SuccessMessage string
	WarningMessage string
}

type calculatorViewData struct {
	baseViewData
	Materials     []string
	ShippingModes []costmodel.ShippingMode
	Form          url.Values
	Lines         []display.Line
}

type materialRow struct {
	Name  string
	Price string
}

type configViewData struct {
	baseViewData
	Location  string
	Materials []materialRow
	Form      url.Values
}

func (s *Server) calculatorView(values url.Values) calculatorViewData {
	model := s.store.Current()
	names := model.MaterialNames()

	// Keep the selected material if it still exists, else fall back to the first.
	if _, ok := model.Materials[values.Get(form.FieldMaterial)]; !ok && len(names) > 0 {
		values.Set(form.FieldMaterial, names[0])
	}

	return calculatorViewData{
		baseViewData:  baseViewData{Active: "calculator", WarningMessage: s.takeNotice()},
		Materials:     names,
		ShippingModes: costmodel.ShippingModes,
		Form:          values,
	}
}

func (s *Server) handleCalculatorForm(w http.ResponseWriter, r *http.Request) {
	s.renderTemplate(w, http.StatusOK, "calculator.html", s.calculatorView(form.PrintJobDefaults()))
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	values := r.PostForm
	job, err := form.ParsePrintJob(values)
	if err != nil {
		s.renderQuoteError(w, values, err)
		return
	}

	breakdown, err := pricing.Compute(job, s.store.Current())
	if err != nil {
		s.renderQuoteError(w, values, err)
		return
	}

	s.log.Debug("quote computed", logging.Fields{"material": job.MaterialName, "final_price": breakdown.FinalPrice})
	view := s.calculatorView(values)
	view.Lines = display.Lines(breakdown)
	s.renderTemplate(w, http.StatusOK, "calculator.html", view)
}

func (s *Server) renderQuoteError(w http.ResponseWriter, values url.Values, err error) {
	s.log.Warn("quote rejected", logging.Fields{"error": err.Error()})
	view := s.calculatorView(values)
	view.ErrorMessage = userMessage(err)
	s.renderTemplate(w, statusFor(err), "calculator.html", view)
}

func (s *Server) configView(values url.Values) configViewData {
	names := values[form.FieldMaterialName]
	prices := values[form.FieldMaterialPrice]
	rows := make([]materialRow, 0, len(names))
	for i, name := range names {
		row := materialRow{Name: name}
		if i < len(prices) {
			row.Price = prices[i]
		}
		rows = append(rows, row)
	}

	return configViewData{
		baseViewData: baseViewData{Active: "config", WarningMessage: s.takeNotice()},
		Location:     s.store.Location(),
		Materials:    rows,
		Form:         values,
	}
}

func (s *Server) handleConfigForm(w http.ResponseWriter, r *http.Request) {
	view := s.configView(form.EncodeCostModel(s.store.Current()))
	view.ErrorMessage = r.URL.Query().Get("error")
	view.SuccessMessage = r.URL.Query().Get("success")
	s.renderTemplate(w, http.StatusOK, "config.html", view)
}

func (s *Server) handleConfigSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	model, err := form.ParseCostModel(r.PostForm)
	if err == nil {
		_, err = s.store.Save(model)
	}
	if err != nil {
		view := s.configView(r.PostForm)
		view.ErrorMessage = userMessage(err)
		s.renderTemplate(w, statusFor(err), "config.html", view)
		return
	}

	redirectWithMessage(w, r, "/config", "success", "Configuración guardada correctamente")
}

func (s *Server) handleMaterialCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	name := r.PostForm.Get(form.FieldNewMaterialName)
	if _, err := s.store.AddMaterial(name, r.PostForm.Get(form.FieldNewMaterialPrice)); err != nil {
		redirectWithMessage(w, r, "/config", "error", userMessage(err))
		return
	}

	redirectWithMessage(w, r, "/config", "success", fmt.Sprintf("Material '%s' agregado", strings.TrimSpace(name)))
}

func (s *Server) handleConfigReset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	if r.PostForm.Get("confirm") != "1" {
		redirectWithMessage(w, r, "/config", "error", "Confirma que quieres reiniciar todos los valores a los predeterminados")
		return
	}

	if _, err := s.store.ResetToDefaults(); err != nil {
		redirectWithMessage(w, r, "/config", "error", userMessage(err))
		return
	}

	redirectWithMessage(w, r, "/config", "success", "Valores reiniciados correctamente")
}
