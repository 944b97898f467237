package emitter

// sliderScript drives the home page category sliders: nav buttons, hiding
// them when a row fits, and touch swipes past 50px.
const sliderScript = `
<script>
  let touchStartX = 0;
  let touchEndX = 0;

  function initializeSliders() {
    document.querySelectorAll('.slider').forEach(slider => {
      const slides = slider.querySelectorAll('.slide');
      if (slides.length === 0) {
        return;
      }

      const slideWidth = slides[0].offsetWidth;
      const fits = slides.length * slideWidth <= slider.offsetWidth;
      ['left', 'right'].forEach(side => {
        const button = document.getElementById('nav-' + slider.id + '-' + side);
        if (button) {
          button.style.display = fits ? 'none' : '';
        }
      });

      slider.addEventListener('touchstart', handleTouchStart, { passive: true });
      slider.addEventListener('touchend', handleTouchEnd);
    });
  }

  function handleTouchStart(event) {
    touchStartX = event.touches[0].clientX;
  }

  function handleTouchEnd(event) {
    touchEndX = event.changedTouches[0].clientX;
    const distance = touchEndX - touchStartX;
    if (Math.abs(distance) > 50) {
      scrollSlider(event.currentTarget.id, distance > 0 ? -1 : 1);
    }
  }

  function scrollSlider(sliderId, direction) {
    const slider = document.getElementById(sliderId);
    const slide = slider.querySelector('.slide');
    if (!slide) {
      return;
    }
    slider.scrollBy({ left: slide.offsetWidth * direction, behavior: 'smooth' });
  }

  window.addEventListener('load', initializeSliders);
  window.addEventListener('resize', initializeSliders);
</script>
`

// galleryScript swaps the main image on thumbnail click, scrolls the
// thumbnail strip, and disables the buttons at either end.
const galleryScript = `
<script>
  const visibleThumbs = 6;
  let currentScrollPosition = 0;
  let touchStartX = 0;

  function thumbWidth() {
    const thumb = document.querySelector('.thumb');
    return thumb ? thumb.offsetWidth + 10 : 0;
  }

  function maxScroll() {
    const count = document.querySelectorAll('.thumb').length;
    return Math.max(0, (count - visibleThumbs) * thumbWidth());
  }

  function updateButtons() {
    document.querySelector('.nav-btn.prev').disabled = currentScrollPosition === 0;
    document.querySelector('.nav-btn.next').disabled = currentScrollPosition >= maxScroll();
  }

  function selectImage(thumb) {
    document.getElementById('mainImage').src = thumb.querySelector('img').src;
    document.querySelectorAll('.thumb').forEach(t => t.classList.remove('active'));
    thumb.classList.add('active');
  }

  function scrollGallery(direction) {
    const step = thumbWidth();
    currentScrollPosition = Math.max(0, Math.min(maxScroll(), currentScrollPosition + direction * step));
    document.getElementById('thumbContainer').style.transform = 'translateX(-' + currentScrollPosition + 'px)';
    updateButtons();
  }

  function stepImage(direction) {
    const thumbs = Array.from(document.querySelectorAll('.thumb'));
    const current = thumbs.findIndex(t => t.classList.contains('active'));
    const next = current + direction;
    if (next >= 0 && next < thumbs.length) {
      selectImage(thumbs[next]);
    }
  }

  function initGallery() {
    const main = document.getElementById('mainImage');
    main.addEventListener('touchstart', e => { touchStartX = e.touches[0].clientX; }, { passive: true });
    main.addEventListener('touchend', e => {
      const distance = e.changedTouches[0].clientX - touchStartX;
      if (Math.abs(distance) > 50) {
        stepImage(distance > 0 ? -1 : 1);
      }
    });
    updateButtons();
  }

  window.addEventListener('load', initGallery);
</script>
`

const galleryStyles = `
<style>
  .product-gallery { max-width: 100%; margin: 0 auto; padding: 0 15px; }
  .gallery-main { width: 100%; height: 500px; margin-bottom: 1rem; }
  .gallery-main img { width: 100%; height: 100%; object-fit: contain; }
  .gallery-thumbs-container { position: relative; max-width: 100%; margin: 0 auto; }
  .gallery-thumbs { width: 600px; max-width: calc(100% - 80px); margin: 0 auto; overflow: hidden; display: flex; align-items: center; }
  .thumb-container { width: 100%; display: flex; gap: 10px; transition: transform 0.3s ease; }
  .thumb { flex: 0 0 auto; width: 80px; height: 80px; border: 2px solid transparent; cursor: pointer; transition: border-color 0.3s; }
  .thumb.active { border-color: var(--primary); }
  .thumb img { width: 100%; height: 100%; object-fit: cover; }
  .nav-btn { position: absolute; top: 50%; transform: translateY(-50%); width: 32px; height: 32px; border: none; border-radius: 50%; background: var(--primary); color: white; display: flex; align-items: center; justify-content: center; cursor: pointer; z-index: 1; padding: 0; }
  .nav-btn:disabled { background: #ccc; cursor: not-allowed; }
  .nav-btn.prev { left: 0; }
  .nav-btn.next { right: 0; }
  @media (max-width: 768px) {
    .gallery-main { height: 300px; }
    .gallery-thumbs { width: 100%; }
    .thumb { width: 60px !important; height: 60px !important; }
  }
  @media (min-width: 769px) {
    .nav-btn.prev { left: -40px; }
    .nav-btn.next { right: -40px; }
  }
</style>
`
