package export

import (
	"fmt"
	"io"

	"conference-app/internal/domain/conference"

	"github.com/xuri/excelize/v2"
)

const registrationsSheet = "Registrations"

var registrationHeader = []interface{}{
	"Code", "Salutation", "Full Name", "Email", "Phone", "Date of Birth",
	"Affiliation", "Designation", "Institute",
	"Address", "City", "State", "Country", "Postal Code",
	"Category", "Accommodation", "Registration Status", "Payment Status",
	"Amount", "Payment Date", "Abstracts", "Registered At",
}

// WriteRegistrations writes one sheet with a header row and one row per
// registration, in the given order.
func WriteRegistrations(w io.Writer, regs []conference.Registration) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", registrationsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(registrationsSheet)
	if err != nil {
		return fmt.Errorf("open stream writer: %w", err)
	}
	if err := sw.SetRow("A1", registrationHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range regs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, registrationRow(r)); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func registrationRow(r conference.Registration) []interface{} {
	paymentDate := ""
	if r.PaymentDate != nil {
		paymentDate = r.PaymentDate.Format("2006-01-02 15:04")
	}
	accommodation := "No"
	if r.Accommodation {
		accommodation = "Yes"
	}
	amount, _ := r.PaymentAmount.Float64()

	return []interface{}{
		r.Code, r.Salutation, r.FullName, r.Email, r.Phone, r.DateOfBirth.Format("2006-01-02"),
		r.Affiliation, r.Designation, r.Institute,
		r.Address, r.City, r.State, r.Country, r.PostalCode,
		string(r.RegistrationType), accommodation, string(r.RegistrationStatus), string(r.PaymentStatus),
		amount, paymentDate, len(r.Abstracts), r.CreatedAt.Format("2006-01-02 15:04"),
	}
}
