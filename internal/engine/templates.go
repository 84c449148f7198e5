package engine

// Reply copy is data, not engine logic (spec.md §1 Non-goals for the core:
// "content of localized reply strings"). localize selects the string for
// ticket.Lang, falling back to English and then to any available entry, so an
// unrecognized or "other" lang never fails to reply.
func localize(lang string, variants map[string]string) string {
	if s, ok := variants[lang]; ok {
		return s
	}
	if s, ok := variants["eng"]; ok {
		return s
	}
	for _, s := range variants {
		return s
	}
	return ""
}

var voiceMessageTemplate = map[string]string{
	"eng": "We received your voice message. A human operator will listen to it and get back to you shortly.",
	"lv":  "Mēs saņēmām jūsu balss ziņu. Operators to noklausīsies un drīz atbildēs.",
	"ru":  "Мы получили ваше голосовое сообщение. Оператор его прослушает и скоро ответит.",
	"ee":  "Saime teie häälsõnumi kätte. Operaator kuulab selle ära ja vastab peagi.",
}

var courierCheckTemplate = map[string]string{
	"eng": "We will check in with our couriers and come back to you as soon as possible.",
	"lv":  "Mēs sazināsimies ar kurjeriem un atbildēsim pēc iespējas ātrāk.",
	"ru":  "Мы свяжемся с курьерами и ответим вам как можно скорее.",
	"ee":  "Võtame ühendust kulleritega ja anname teile peagi teada.",
}

var lateHoursCaveat = map[string]string{
	"eng": "Note: it is currently very late or very early, so the courier team's reply may be delayed.",
	"lv":  "Ņemiet vērā: pašlaik ir ļoti vēls vai ļoti agrs laiks, tāpēc kurjeru komandas atbilde var aizkavēties.",
	"ru":  "Обратите внимание: сейчас очень поздно или очень рано, поэтому ответ курьеров может задержаться.",
	"ee":  "Pange tähele: praegu on väga hilja või väga vara, seega kulleri vastus võib hilineda.",
}

var thumbsUp = "👍"

// gatherInfoTemplate is the 3-message scripted reply for
// cant_find_product_or_drop_or_dead_drop (spec.md §8 scenario 1).
var gatherInfoTemplate = map[string][3]string{
	"eng": {
		"Sorry to hear that. Let's figure out what happened.",
		"Please send us the exact location or any photos you have of the spot.",
		"A human operator will take over if we can't resolve this from your answers.",
	},
	"lv": {
		"Žēl to dzirdēt. Noskaidrosim, kas notika.",
		"Lūdzu, nosūtiet mums precīzu atrašanās vietu vai fotoattēlus, ja tādi ir.",
		"Ja nevarēsim to atrisināt pēc jūsu atbildēm, pārņems cilvēks operators.",
	},
	"ru": {
		"Жаль это слышать. Давайте разберёмся, что произошло.",
		"Пришлите нам точное место или любые фото, если они есть.",
		"Если не удастся решить вопрос по вашим ответам, подключится оператор.",
	},
	"ee": {
		"Kahju seda kuulda. Uurime, mis juhtus.",
		"Palun saatke meile täpne asukoht või fotod, kui need on olemas.",
		"Kui me ei suuda seda teie vastuste põhjal lahendada, võtab üle inimoperaator.",
	},
}

var templateReplies = map[string]map[string]string{
	"dont_know_how_to_pay": {
		"eng": "You can pay via the methods listed on our payment page; let us know if anything is unclear.",
		"lv":  "Varat maksāt, izmantojot metodes mūsu maksājumu lapā; dodiet ziņu, ja kaut kas nav skaidrs.",
		"ru":  "Вы можете оплатить способами, указанными на странице оплаты; напишите, если что-то непонятно.",
		"ee":  "Saate maksta meie maksete lehel loetletud viisidel; andke teada, kui midagi on ebaselge.",
	},
	"restock_request_for_product_or_location": {
		"eng": "Thanks for the restock request — we've passed it along to the team.",
		"lv":  "Paldies par papildināšanas pieprasījumu — esam to nodevuši komandai.",
		"ru":  "Спасибо за запрос на пополнение — мы передали его команде.",
		"ee":  "Täname täienduse päringu eest — andsime selle edasi meeskonnale.",
	},
	"is_product_still_available": {
		"eng": "Availability changes quickly; please check back on the catalog for the latest status.",
		"lv":  "Pieejamība mainās ātri; lūdzu, pārbaudiet katalogā jaunāko statusu.",
		"ru":  "Наличие меняется быстро; пожалуйста, проверьте актуальный статус в каталоге.",
		"ee":  "Saadavus muutub kiiresti; palun kontrollige kataloogist uusimat olekut.",
	},
	"what_is_usual_product_arrival_time": {
		"eng": "Arrival times vary by location; most drops are confirmed within a couple of days.",
		"lv":  "Piegādes laiki ir atkarīgi no vietas; lielākā daļa tiek apstiprināti dažu dienu laikā.",
		"ru":  "Сроки доставки зависят от места; большинство закладок подтверждаются за пару дней.",
		"ee":  "Saabumisajad erinevad asukoha järgi; enamik kinnitatakse paari päeva jooksul.",
	},
}
