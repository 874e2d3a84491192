package onboarding

import "github.com/orientame/onboarding-api/internal/models"

// ValidationFailedNotification is shown when a submit is rejected
func ValidationFailedNotification() models.Notification {
	return models.Notification{
		Title:       "Oops! Faltan algunos datos",
		Description: "Revisa los campos marcados en rojo",
		Variant:     models.NotificationDestructive,
	}
}

// CounselorSavedNotification is shown once the counselor is handed off
func CounselorSavedNotification() models.Notification {
	return models.Notification{
		Title:       "¡Orientador guardado con éxito! 🎉",
		Description: "Datos guardados correctamente. Ahora vamos con las actividades.",
		Variant:     models.NotificationDefault,
	}
}

// HandoffFailedNotification is shown when the saved counselor could not be
// passed on and the form is open again
func HandoffFailedNotification() models.Notification {
	return models.Notification{
		Title:       "No pudimos guardar al orientador",
		Description: "Inténtalo nuevamente en unos segundos",
		Variant:     models.NotificationDestructive,
	}
}
