package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clinicpad/clinicpad/internal/domain/appointment"
	"github.com/clinicpad/clinicpad/internal/domain/patient"
)

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newPatientCmd(a **app) *cobra.Command {
	cmd := &cobra.Command{Use: "patient", Short: "Manage patient records"}

	var create patient.CreatePatientCommand
	var gender string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Register a new patient",
		RunE: func(c *cobra.Command, args []string) error {
			create.Gender = patient.Gender(gender)
			p, err := (*a).patientSvc.Register(c.Context(), &create)
			if err != nil {
				return err
			}
			return printJSON(p)
		},
	}
	addCmd.Flags().StringVar(&create.Name, "name", "", "full name (required)")
	addCmd.Flags().IntVar(&create.Age, "age", 0, "age in years")
	addCmd.Flags().StringVar(&gender, "gender", "", "male|female|other|unknown")
	addCmd.Flags().StringVar(&create.Phone, "phone", "", "phone number")
	addCmd.Flags().StringVar(&create.Email, "email", "", "email address")
	addCmd.Flags().StringVar(&create.Height, "height", "", "height, free text")
	addCmd.Flags().StringVar(&create.Weight, "weight", "", "weight, free text")
	addCmd.Flags().StringVar(&create.BloodPressure, "bp", "", "blood pressure, free text")
	addCmd.Flags().StringVar(&create.MedicalHistory, "history", "", "medical history")
	_ = addCmd.MarkFlagRequired("name")

	var search string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List patients, optionally filtered by name",
		RunE: func(c *cobra.Command, args []string) error {
			pats, err := (*a).patientSvc.List(c.Context(), search)
			if err != nil {
				return err
			}
			return printJSON(pats)
		},
	}
	listCmd.Flags().StringVar(&search, "search", "", "case-insensitive name filter")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			p, err := (*a).patientSvc.Get(c.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(p)
		},
	}

	apptsCmd := &cobra.Command{
		Use:   "appointments <id>",
		Short: "List a patient's appointments",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			appts, err := (*a).patientSvc.GetPatientAppointments(c.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(appts)
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a patient record (appointments are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return (*a).patientSvc.Delete(c.Context(), args[0])
		},
	}

	cmd.AddCommand(addCmd, listCmd, showCmd, apptsCmd, deleteCmd)
	return cmd
}

func newAppointmentCmd(a **app) *cobra.Command {
	cmd := &cobra.Command{Use: "appt", Short: "Manage appointments"}

	var schedule appointment.ScheduleAppointmentCommand
	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Schedule an appointment (starts pending)",
		RunE: func(c *cobra.Command, args []string) error {
			appt, err := (*a).appointmentSvc.Schedule(c.Context(), &schedule)
			if err != nil {
				return err
			}
			return printJSON(appt)
		},
	}
	scheduleCmd.Flags().StringVar(&schedule.PatientID, "patient", "", "patient ID (required)")
	scheduleCmd.Flags().StringVar(&schedule.Date, "date", "", "calendar date, e.g. 2025-01-10 (required)")
	scheduleCmd.Flags().StringVar(&schedule.Time, "time", "", "display time, e.g. 09:30 AM")
	scheduleCmd.Flags().StringVar(&schedule.Reason, "reason", "", "visit reason (required)")
	scheduleCmd.Flags().StringVar(&schedule.Notes, "notes", "", "free-text notes")
	_ = scheduleCmd.MarkFlagRequired("patient")
	_ = scheduleCmd.MarkFlagRequired("date")
	_ = scheduleCmd.MarkFlagRequired("reason")

	var byPatient string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List appointments",
		RunE: func(c *cobra.Command, args []string) error {
			if byPatient != "" {
				appts, err := (*a).appointmentSvc.ListByPatient(c.Context(), byPatient)
				if err != nil {
					return err
				}
				return printJSON(appts)
			}
			appts, err := (*a).appointmentSvc.List(c.Context())
			if err != nil {
				return err
			}
			return printJSON(appts)
		},
	}
	listCmd.Flags().StringVar(&byPatient, "patient", "", "filter by patient ID")

	confirmCmd := &cobra.Command{
		Use:   "confirm <id>",
		Short: "Confirm a pending appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			appt, err := (*a).appointmentSvc.Confirm(c.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(appt)
		},
	}

	cancelCmd := &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a pending or confirmed appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			appt, err := (*a).appointmentSvc.Cancel(c.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(appt)
		},
	}

	var complete appointment.MedicalRecord
	var remarks string
	completeCmd := &cobra.Command{
		Use:   "complete <id>",
		Short: "Complete an appointment and record the visit on the patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cmd := &appointment.CompleteAppointmentCommand{Remarks: remarks}
			if complete != (appointment.MedicalRecord{}) {
				cmd.Record = &complete
			}
			appt, err := (*a).appointmentSvc.Complete(c.Context(), args[0], cmd)
			if err != nil {
				return err
			}
			return printJSON(appt)
		},
	}
	completeCmd.Flags().StringVar(&remarks, "remarks", "", `free-text remarks ("Diagnosis: ..." lines are parsed)`)
	completeCmd.Flags().StringVar(&complete.Complaint, "complaint", "", "chief complaint")
	completeCmd.Flags().StringVar(&complete.Diagnosis, "diagnosis", "", "diagnosis")
	completeCmd.Flags().StringVar(&complete.BloodPressure, "bp", "", "blood pressure reading")
	completeCmd.Flags().StringVar(&complete.Weight, "weight", "", "weight reading")
	completeCmd.Flags().StringVar(&complete.Prescription, "prescription", "", "prescription")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return (*a).appointmentSvc.Delete(c.Context(), args[0])
		},
	}

	cmd.AddCommand(scheduleCmd, listCmd, confirmCmd, cancelCmd, completeCmd, deleteCmd)
	return cmd
}

func newSeedCmd(a **app) *cobra.Command {
	cmd := &cobra.Command{Use: "seed", Short: "Toggle the built-in demo data"}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "on",
			Short: "Insert the demo data set (safe to repeat)",
			RunE: func(c *cobra.Command, args []string) error {
				return (*a).seedSvc.Enable(c.Context())
			},
		},
		&cobra.Command{
			Use:   "off",
			Short: "Remove the demo data set, keeping user records",
			RunE: func(c *cobra.Command, args []string) error {
				return (*a).seedSvc.Disable(c.Context())
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show whether demo data is enabled",
			RunE: func(c *cobra.Command, args []string) error {
				on, err := (*a).seedSvc.Enabled(c.Context())
				if err != nil {
					return err
				}
				fmt.Println("demo data:", map[bool]string{true: "on", false: "off"}[on])
				return nil
			},
		},
	)
	return cmd
}

func newExportCmd(a **app) *cobra.Command {
	var out, format string
	var includeSeed bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all data to a portable file",
		RunE: func(c *cobra.Command, args []string) error {
			switch format {
			case "json":
				w := os.Stdout
				if out != "" {
					f, err := os.Create(out)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}
				_, err := (*a).transferSvc.ExportJSON(c.Context(), w, includeSeed)
				return err
			case "csv":
				if out == "" {
					return fmt.Errorf("--out is required for csv export")
				}
				pf, err := os.Create(out + "-patients.csv")
				if err != nil {
					return err
				}
				defer pf.Close()
				af, err := os.Create(out + "-appointments.csv")
				if err != nil {
					return err
				}
				defer af.Close()
				return (*a).transferSvc.ExportCSV(c.Context(), pf, af, includeSeed)
			default:
				return fmt.Errorf("unknown format %q (json or csv)", format)
			}
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "output path (json) or path prefix (csv); stdout when empty")
	cmd.Flags().StringVar(&format, "format", "json", "json or csv")
	cmd.Flags().BoolVar(&includeSeed, "include-seed", false, "include demo records in the export")
	return cmd
}

func newImportCmd(a **app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Import a JSON export or a legacy CSV file pair",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if strings.HasSuffix(strings.ToLower(args[0]), ".csv") {
				return importCSVFiles(c, *a, args)
			}
			if len(args) != 1 {
				return fmt.Errorf("JSON import takes exactly one file")
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			summary, err := (*a).transferSvc.ImportJSON(c.Context(), f)
			if err != nil {
				return err
			}
			fmt.Println(summary.Message)
			return nil
		},
	}
	return cmd
}

func importCSVFiles(c *cobra.Command, a *app, paths []string) error {
	files := make(map[string]io.Reader, len(paths))
	var handles []*os.File
	defer func() {
		for _, f := range handles {
			f.Close()
		}
	}()

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		handles = append(handles, f)
		files[filepath.Base(path)] = f
	}

	summary, err := a.transferSvc.ImportCSV(c.Context(), files)
	if err != nil {
		return err
	}
	fmt.Println(summary.Message)
	return nil
}

func newLogCmd(a **app) *cobra.Command {
	return &cobra.Command{
		Use:   "log",
		Short: "Show the import/export/clear audit trail",
		RunE: func(c *cobra.Command, args []string) error {
			entries, err := (*a).transferSvc.OperationLog(c.Context())
			if err != nil {
				return err
			}
			return printJSON(entries)
		},
	}
}

func newWipeCmd(a **app) *cobra.Command {
	var confirmed bool
	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Delete every data collection (settings are kept)",
		RunE: func(c *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("refusing to wipe without --yes")
			}
			return (*a).transferSvc.ClearAll(c.Context())
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm the wipe")
	return cmd
}
