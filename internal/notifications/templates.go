package notifications

import (
	"fmt"

	"github.com/angelmondragon/wardrop-backend/pkg/types"
)

const displayDateLayout = "02/01/2006"

func displayDate(d types.Date) string {
	return d.Format(displayDateLayout)
}

func bookingConfirmationText(clientName, dressName string, start, end types.Date, brand string) string {
	return fmt.Sprintf(
		"Bonjour %s!\n\nVotre réservation a été confirmée:\n- Robe: %s\n- Date: %s au %s\n\nMerci de nous faire confiance!\n\n🌸 %s",
		clientName, dressName, displayDate(start), displayDate(end), brand,
	)
}

func returnReminderText(clientName, dressName string, returnDate types.Date, brand string) string {
	return fmt.Sprintf(
		"Bonjour %s!\n\nRappel: La robe '%s' doit être retournée le %s.\n\nMerci!\n\n🌸 %s",
		clientName, dressName, displayDate(returnDate), brand,
	)
}

func thankYouText(clientName, brand string) string {
	return fmt.Sprintf(
		"Bonjour %s!\n\nMerci d'avoir choisi %s! Nous espérons que vous avez passé un moment magnifique.\n\nÀ bientôt!\n\n🌸 %s",
		clientName, brand, brand,
	)
}
