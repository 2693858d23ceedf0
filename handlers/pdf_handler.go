package handlers

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"medicare/auth"
	"medicare/repository"
	"medicare/utils"
)

type PDFHandler struct {
	Repo     repository.AppointmentRepository
	SavePath string
}

// AppointmentPDF renders a confirmation PDF for one appointment. Only
// the patient or the doctor on the record may request it.
func (h *PDFHandler) AppointmentPDF(w http.ResponseWriter, r *http.Request, caller *auth.Identity, id string) {
	appointmentID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID format")
		return
	}

	appointment, err := h.Repo.GetAppointmentByID(appointmentID)
	if err != nil {
		serverError(w, err)
		return
	}
	if appointment == nil {
		writeError(w, http.StatusNotFound, "Appointment not found")
		return
	}
	if appointment.PatientID != caller.ID && appointment.DoctorID != caller.ID {
		writeError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	saveDir := h.SavePath
	if saveDir == "" {
		saveDir = "./pdfs"
	}
	if err := os.MkdirAll(saveDir, os.ModePerm); err != nil {
		serverError(w, err)
		return
	}

	pdfBytes, err := utils.GenerateAppointmentPDF(appointment)
	if err != nil {
		serverError(w, err)
		return
	}

	filename := fmt.Sprintf("appointment_%s_%d.pdf", appointment.ID.Hex(), time.Now().Unix())
	if err := os.WriteFile(filepath.Join(saveDir, filename), pdfBytes, 0644); err != nil {
		serverError(w, err)
		return
	}

	resp := map[string]string{"file": filename}
	if utils.R2Enabled() {
		url, err := utils.UploadToR2(pdfBytes, filename, "application/pdf")
		if err != nil {
			// local copy already written, keep serving it
			log.Printf("failed to upload %s to R2: %v", filename, err)
		} else {
			resp["url"] = url
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
